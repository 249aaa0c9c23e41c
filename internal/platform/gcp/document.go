package gcp

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type DocumentConfig struct {
	ProjectID        string
	Location         string
	ProcessorID      string
	ProcessorVersion string
}

func DocumentConfigFromEnv() DocumentConfig {
	cfg := DocumentConfig{
		ProjectID:        strings.TrimSpace(os.Getenv("DOCUMENTAI_PROJECT_ID")),
		Location:         strings.TrimSpace(os.Getenv("DOCUMENTAI_LOCATION")),
		ProcessorID:      strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_ID")),
		ProcessorVersion: strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_VERSION")),
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}
	return cfg
}

func (c DocumentConfig) Enabled() bool {
	return c.ProjectID != "" && c.ProcessorID != ""
}

// DocumentText pulls plain text out of PDFs with a Document AI OCR processor.
type DocumentText struct {
	log    *logger.Logger
	client *documentai.DocumentProcessorClient
	name   string
}

func NewDocumentText(ctx context.Context, log *logger.Logger, cfg DocumentConfig) (*DocumentText, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !cfg.Enabled() {
		return nil, fmt.Errorf("documentai: DOCUMENTAI_PROJECT_ID and DOCUMENTAI_PROCESSOR_ID are required")
	}
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)
	c, err := documentai.NewDocumentProcessorClient(ctx, clientOptions(option.WithEndpoint(endpoint))...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}
	return &DocumentText{
		log:    log.With("service", "gcp.DocumentText"),
		client: c,
		name:   processorName(cfg.ProjectID, cfg.Location, cfg.ProcessorID, cfg.ProcessorVersion),
	}, nil
}

func (d *DocumentText) Name() string { return "documentai" }

func (d *DocumentText) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if len(pdf) == 0 {
		return "", nil
	}
	resp, err := d.client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: d.name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdf,
				MimeType: "application/pdf",
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("documentai ProcessDocument: %w", err)
	}
	if resp == nil || resp.GetDocument() == nil {
		return "", nil
	}
	doc := resp.GetDocument()
	d.log.Debug("documentai processed pdf", "pages", len(doc.GetPages()), "chars", len(doc.GetText()))
	return doc.GetText(), nil
}

func (d *DocumentText) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func processorName(project, location, processorID, version string) string {
	base := fmt.Sprintf("projects/%s/locations/%s/processors/%s", project, location, processorID)
	if version != "" {
		return base + "/processorVersions/" + version
	}
	return base
}
