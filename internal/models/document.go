package models

import "image"

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindPDF   MediaKind = "pdf"
)

const (
	MIMETypePDF = "application/pdf"
	MIMETypePNG = "image/png"
)

// Document is an uploaded file prepared for transmission to the model.
// It is owned by a single extraction and never stored.
type Document struct {
	FileName string
	Kind     MediaKind
	MIMEType string
	// Data holds the bytes sent to the provider: the PDF verbatim, or the
	// decoded image re-encoded as PNG.
	Data []byte
	// Pixels is the decoded image; nil for PDFs.
	Pixels image.Image
	// Pages is the PDF page count, 0 when unknown or for images.
	Pages int
	// Size is the original upload size in bytes.
	Size int64
}

func (d *Document) IsImage() bool {
	return d.Kind == MediaKindImage
}

func (d *Document) IsPDF() bool {
	return d.Kind == MediaKindPDF
}
