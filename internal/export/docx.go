package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`
	relationshipsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
	documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentFooter = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134"/></w:sectPr></w:body></w:document>`
)

// DOCX renders the transcript as a minimal WordprocessingML package with one
// paragraph per line.
func DOCX(content resume.Content) ([]byte, error) {
	var body strings.Builder
	body.WriteString(documentHeader)
	for _, row := range transcript(content) {
		for _, text := range strings.Split(row.text, "\n") {
			if err := writeParagraph(&body, line{text: text, heading: row.heading}); err != nil {
				return nil, err
			}
		}
	}
	body.WriteString(documentFooter)

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	parts := []struct {
		name string
		data string
	}{
		{name: "[Content_Types].xml", data: contentTypesXML},
		{name: "_rels/.rels", data: relationshipsXML},
		{name: "word/document.xml", data: body.String()},
	}
	for _, part := range parts {
		writer, err := archive.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := writer.Write([]byte(part.data)); err != nil {
			return nil, err
		}
	}
	if err := archive.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeParagraph(body *strings.Builder, row line) error {
	body.WriteString("<w:p>")
	if row.text != "" {
		body.WriteString("<w:r>")
		if row.heading {
			body.WriteString("<w:rPr><w:b/></w:rPr>")
		}
		body.WriteString(`<w:t xml:space="preserve">`)
		if err := xml.EscapeText(body, []byte(row.text)); err != nil {
			return err
		}
		body.WriteString("</w:t></w:r>")
	}
	body.WriteString("</w:p>")
	return nil
}
