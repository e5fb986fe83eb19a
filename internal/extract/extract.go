// Package extract pulls plain text out of uploaded resume files.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePlain = "text/plain"

	mimeZip         = "application/zip"
	mimeOctetStream = "application/octet-stream"
	documentXMLPath = "word/document.xml"
)

var (
	// ErrUnsupportedType indicates a file format the importer cannot read.
	ErrUnsupportedType = errors.New("extract: unsupported file type")
	// ErrNoText indicates that the file held no readable text.
	ErrNoText = errors.New("extract: no text could be extracted")
)

// Text extracts text from an in-memory file.
func Text(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var (
		text string
		err  error
	)
	normalized := NormalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	case MimePlain, "text/markdown":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text is not valid utf-8", ErrUnsupportedType)
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, normalized)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", normalized, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == documentXMLPath {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocumentXML(raw)
}

// stripDocumentXML keeps run text and breaks lines at paragraph ends.
func stripDocumentXML(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var (
		buf    strings.Builder
		inText bool
	)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch element := token.(type) {
		case xml.CharData:
			if inText {
				buf.Write(element)
			}
		case xml.StartElement:
			switch element.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if element.Name.Local == "t" {
				inText = false
			}
			if (element.Name.Local == "p" || element.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

// NormalizeMimeType resolves the effective type from the declared type, the
// file extension and, for zip payloads, the archive layout.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "", mimeOctetStream:
		if fromExtension := mimeFromExtension(fileName); fromExtension != "" {
			return fromExtension
		}
		if isDOCX(data) {
			return MimeDOCX
		}
		return clean
	case mimeZip:
		if isDOCX(data) {
			return MimeDOCX
		}
		if fromExtension := mimeFromExtension(fileName); fromExtension != "" {
			return fromExtension
		}
		return clean
	default:
		return clean
	}
}

func mimeFromExtension(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt", ".text":
		return MimePlain
	case ".md":
		return "text/markdown"
	default:
		return ""
	}
}

func isDOCX(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == documentXMLPath {
			return true
		}
	}
	return false
}
