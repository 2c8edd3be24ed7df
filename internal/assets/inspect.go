package assets

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// inspection is what the checks learned about an upload.
type inspection struct {
	ContentType string
	PageCount   int
}

// inspect sniffs the payload and applies the kind's format rules.
// Documents must be PDFs that the reader can open.
func inspect(kind Kind, data []byte) (inspection, error) {
	sniffed := normalizeMime(http.DetectContentType(data))
	switch kind {
	case KindImage:
		if !imageTypes[sniffed] {
			return inspection{}, fmt.Errorf("%w: images must be png, jpeg, gif, webp or bmp (got %s)", ErrUnsupportedType, sniffed)
		}
		return inspection{ContentType: sniffed}, nil
	case KindDocument:
		if sniffed != mimePDF {
			return inspection{}, fmt.Errorf("%w: documents must be PDF (got %s)", ErrUnsupportedType, sniffed)
		}
		pages, err := pdfPageCount(data)
		if err != nil {
			return inspection{}, fmt.Errorf("%w: unreadable PDF: %v", ErrUnsupportedType, err)
		}
		return inspection{ContentType: mimePDF, PageCount: pages}, nil
	default:
		return inspection{}, fmt.Errorf("%w: unknown asset kind %q", ErrInvalidInput, kind)
	}
}

func pdfPageCount(data []byte) (n int, err error) {
	// the reader panics on some malformed trailers.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	n = reader.NumPage()
	if n <= 0 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return n, nil
}

func normalizeMime(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
