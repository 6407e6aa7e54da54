package payroll

import (
	"fmt"
	"regexp"
)

// ContentTypePDF is the media type of rendered slips.
const ContentTypePDF = "application/pdf"

var unsafeFileChars = regexp.MustCompile(`[^0-9A-Za-z_-]+`)

// Document is a finished salary slip for exactly one record.
type Document struct {
	EmployeeID  string
	FileName    string
	ContentType string
	data        []byte
}

// NewDocument wraps rendered bytes. The slice is copied.
func NewDocument(employeeID string, data []byte) *Document {
	b := make([]byte, len(data))
	copy(b, data)
	return &Document{
		EmployeeID:  employeeID,
		FileName:    SlipFileName(employeeID),
		ContentType: ContentTypePDF,
		data:        b,
	}
}

// Bytes returns a copy of the document content.
func (d *Document) Bytes() []byte {
	b := make([]byte, len(d.data))
	copy(b, d.data)
	return b
}

// Len returns the document size in bytes.
func (d *Document) Len() int { return len(d.data) }

// SlipFileName names the download deterministically from the identifier.
func SlipFileName(employeeID string) string {
	safe := unsafeFileChars.ReplaceAllString(employeeID, "_")
	if safe == "" {
		safe = "unknown"
	}
	return fmt.Sprintf("Salary_%s.pdf", safe)
}
