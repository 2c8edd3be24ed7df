// Package assettest builds small valid files for upload tests.
package assettest

import (
	"bytes"
	"fmt"
	"strings"
)

// PNG returns bytes that sniff as image/png.
func PNG(tag string) []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), []byte("\x00\x00\x00\rIHDR"+tag)...)
}

// PDF returns a minimal well-formed PDF with the given number of empty pages.
func PDF(pages int) []byte {
	if pages < 1 {
		pages = 1
	}
	kids := make([]string, pages)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"",
	}
	for i := 0; i < pages; i++ {
		num := 3 + i
		kids[i] = fmt.Sprintf("%d 0 R", num)
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
