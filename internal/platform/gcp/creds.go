package gcp

import (
	"os"
	"strings"

	"google.golang.org/api/option"
)

const (
	envCredentialsJSON = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	envCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"
)

// clientOptions prepends explicit credentials, when configured, to extra.
// GOOGLE_APPLICATION_CREDENTIALS may hold a file path or, on hosts that only
// allow env secrets, the key JSON itself. Nothing set means ambient ADC.
func clientOptions(extra ...option.ClientOption) []option.ClientOption {
	out := make([]option.ClientOption, 0, len(extra)+1)
	if raw := strings.TrimSpace(os.Getenv(envCredentialsJSON)); raw != "" {
		out = append(out, option.WithCredentialsJSON([]byte(raw)))
	} else if v := strings.TrimSpace(os.Getenv(envCredentialsFile)); v != "" {
		if strings.HasPrefix(v, "{") {
			out = append(out, option.WithCredentialsJSON([]byte(v)))
		} else {
			out = append(out, option.WithCredentialsFile(v))
		}
	}
	return append(out, extra...)
}
