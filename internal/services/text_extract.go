package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

// TextExtractor turns PDF bytes into plain text.
type TextExtractor interface {
	Name() string
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

var ErrNoExtractor = errors.New("no pdf text extractor available")

// ExtractorChain tries each extractor in order and returns the first
// non-empty text. Failures fall through to the next extractor.
type ExtractorChain struct {
	log        *logger.Logger
	extractors []TextExtractor
}

func NewExtractorChain(log *logger.Logger, extractors ...TextExtractor) *ExtractorChain {
	kept := make([]TextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	return &ExtractorChain{log: log.With("service", "ExtractorChain"), extractors: kept}
}

func (c *ExtractorChain) Name() string { return "chain" }

func (c *ExtractorChain) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	if len(c.extractors) == 0 {
		return "", ErrNoExtractor
	}
	var errs []error
	for _, ex := range c.extractors {
		text, err := ex.ExtractText(ctx, pdf)
		if err != nil {
			c.log.Warn("pdf extractor failed", "extractor", ex.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", ex.Name(), err))
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	if len(errs) == len(c.extractors) {
		return "", errors.Join(errs...)
	}
	return "", nil
}

// PDFToText shells out to poppler's pdftotext.
type PDFToText struct {
	bin     string
	timeout time.Duration
}

// NewPDFToText returns nil when pdftotext is not on PATH.
func NewPDFToText() *PDFToText {
	bin, err := exec.LookPath("pdftotext")
	if err != nil {
		return nil
	}
	return &PDFToText{bin: bin, timeout: 30 * time.Second}
}

func (p *PDFToText) Name() string { return "pdftotext" }

func (p *PDFToText) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	f, err := os.CreateTemp("", "edubox-*.pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(pdf); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.bin, "-layout", "-enc", "UTF-8", f.Name(), "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
