// Package pdftest builds small, valid PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
)

// Font describes the font bound to /F1.
type Font struct {
	Subtype  string
	BaseFont string
	// Encoding is written verbatim: a name such as /WinAnsiEncoding or an
	// encoding dictionary. Empty omits the entry.
	Encoding string
	// ToUnicode, when set, is stored as a stream and referenced from the font.
	ToUnicode string
}

// Helvetica is the font Build uses.
var Helvetica = Font{Subtype: "Type1", BaseFont: "Helvetica", Encoding: "/WinAnsiEncoding"}

// Build returns a PDF with one page per content stream. Every page is
// US Letter (612x792) and has Helvetica (WinAnsiEncoding) bound to /F1.
func Build(contentStreams ...string) []byte {
	return BuildWithFont(Helvetica, contentStreams...)
}

// BuildWithFont is Build with font bound to /F1.
func BuildWithFont(font Font, contentStreams ...string) []byte {
	var buf bytes.Buffer
	offsets := map[int]int{}

	buf.WriteString("%PDF-1.4\n")

	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	n := len(contentStreams)
	fontID := 3 + n*2

	var kids bytes.Buffer
	for i := range contentStreams {
		if i > 0 {
			kids.WriteByte(' ')
		}
		fmt.Fprintf(&kids, "%d 0 R", 3+i*2)
	}
	offsets[2] = buf.Len()
	fmt.Fprintf(&buf, "2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", kids.String(), n)

	for i, cs := range contentStreams {
		pageID := 3 + i*2
		streamID := pageID + 1

		offsets[pageID] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]", pageID)
		fmt.Fprintf(&buf, " /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>\nendobj\n", streamID, fontID)

		offsets[streamID] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", streamID, len(cs), cs)
	}

	size := fontID + 1
	offsets[fontID] = buf.Len()
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /Font /Subtype /%s /BaseFont /%s", fontID, font.Subtype, font.BaseFont)
	if font.Encoding != "" {
		fmt.Fprintf(&buf, " /Encoding %s", font.Encoding)
	}
	if font.ToUnicode != "" {
		fmt.Fprintf(&buf, " /ToUnicode %d 0 R", size)
	}
	buf.WriteString(" >>\nendobj\n")

	if font.ToUnicode != "" {
		offsets[size] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", size, len(font.ToUnicode), font.ToUnicode)
		size++
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id < size; id++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\n", size)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

// Text returns a content stream that shows each line with Tj, one line per
// text object, stepping down the page.
func Text(lines ...string) string {
	var buf bytes.Buffer
	for i, l := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "BT /F1 12 Tf 72 %d Td (%s) Tj ET", 720-i*20, l)
	}
	return buf.String()
}
