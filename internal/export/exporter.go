package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/render"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

// Format names an export target.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "txt"
	FormatDOCX Format = "docx"
)

var (
	// ErrUnknownFormat indicates an unsupported export format.
	ErrUnknownFormat = errors.New("export: unknown format")
	// ErrPDFUnavailable indicates that no PDF printer is configured.
	ErrPDFUnavailable = errors.New("export: pdf printer not configured")

	unsafeFileNameChars = regexp.MustCompile(`[^\p{L}\p{N} ._-]+`)
)

// Formats lists the supported formats in menu order.
func Formats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatText}
}

// ParseFormat validates raw input.
func ParseFormat(rawInput string) (Format, error) {
	candidate := Format(strings.ToLower(strings.TrimSpace(rawInput)))
	for _, format := range Formats() {
		if format == candidate {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, rawInput)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Artifact is one exported file.
type Artifact struct {
	FileName    string
	ContentType string
	Format      Format
	Data        []byte
}

// Exporter renders documents into downloadable artifacts.
type Exporter struct {
	printer PDFPrinter
	logger  *zap.Logger
}

// NewExporter constructs an Exporter. A nil printer disables PDF output.
func NewExporter(printer PDFPrinter, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{printer: printer, logger: logger}
}

// Export renders document in format.
func (e *Exporter) Export(ctx context.Context, document resume.Document, format Format) (Artifact, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatText:
		data = []byte(Text(document.Content))
	case FormatDOCX:
		data, err = DOCX(document.Content)
	case FormatPDF:
		data, err = e.pdf(ctx, document)
	default:
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		e.logger.Error("export failed",
			zap.String("operation", "export."+string(format)),
			zap.String("document_id", document.ID),
			zap.Error(err))
		return Artifact{}, err
	}
	return Artifact{
		FileName:    FileName(document.Title, format),
		ContentType: format.ContentType(),
		Format:      format,
		Data:        data,
	}, nil
}

func (e *Exporter) pdf(ctx context.Context, document resume.Document) ([]byte, error) {
	if e.printer == nil {
		return nil, ErrPDFUnavailable
	}
	page, err := render.HTML(render.Project(document))
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return e.printer.PrintPDF(ctx, page)
}

// FileName derives "<title>.<ext>", falling back to "resume".
func FileName(title string, format Format) string {
	base := strings.TrimSpace(unsafeFileNameChars.ReplaceAllString(title, ""))
	if base == "" {
		base = "resume"
	}
	return base + "." + string(format)
}
