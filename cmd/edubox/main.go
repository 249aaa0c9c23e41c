// Package main is the edubox backend entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/edubox-backend/internal/app"
	"github.com/yungbote/edubox-backend/internal/platform/envutil"
	"github.com/yungbote/edubox-backend/internal/services"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "edubox",
	Short:        "EduBox API server",
	Version:      version,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Migrate()
	},
}

var (
	tokenPlan  string
	tokenEmail string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint a development bearer token signed with AUTH_JWT_SECRET",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := envutil.String("AUTH_JWT_SECRET", "")
		if secret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is not set")
		}
		tok, err := services.SignToken(secret, envutil.String("AUTH_JWT_ISSUER", ""), args[0], tokenEmail, tokenPlan, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenPlan, "plan", "free", "plan claim (free, plus, pro)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
