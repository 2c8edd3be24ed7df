package submission

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CatalogRecord is the payload that creates a catalog entry.
type CatalogRecord struct {
	Images      []string       `json:"images"`
	BookName    string         `json:"bookName"`
	Author      string         `json:"author"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Discount    *float64       `json:"discount,omitempty"`
	GenreID     int64          `json:"genreId"`
	Language    string         `json:"language"`
	YearOfIssue int            `json:"yearOfIssue"`
	BestSeller  bool           `json:"bestSeller"`
	Book        EditionDetails `json:"book"`
}

// EditionDetails is the edition-specific part of a CatalogRecord.
type EditionDetails struct {
	Fragment         string `json:"fragment"`
	PublishingHouse  string `json:"publishingHouse"`
	PageSize         int    `json:"pageSize"`
	QuantityOfBooks  *int   `json:"quantityOfBooks,omitempty"`
	ElectronicBookID string `json:"electronicBookId,omitempty"`
}

var yearLayouts = []string{"2006-01-02", "02/01/2006", "02.01.2006", "2006/01/02"}

// ParseYear extracts an integer year from "2020" or a full date.
func ParseYear(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("year is empty")
	}
	if y, err := strconv.Atoi(s); err == nil {
		if y <= 0 || y > 9999 {
			return 0, fmt.Errorf("year %d out of range", y)
		}
		return y, nil
	}
	for _, layout := range yearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), nil
		}
	}
	return 0, fmt.Errorf("no year in %q", raw)
}

// Assemble builds the CatalogRecord from a validated draft and the uploaded asset ids.
// Text is coerced to numbers here; a value that does not parse fails the assembly.
func Assemble(ed Edition, d Draft, assetIDs map[Slot]string) (CatalogRecord, error) {
	images := make([]string, 0, len(ImageSlots))
	for _, slot := range ImageSlots {
		id := assetIDs[slot]
		if id == "" {
			return CatalogRecord{}, fmt.Errorf("%s: %w", slot, errMissingAssetID)
		}
		images = append(images, id)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(d.Price), 64)
	if err != nil {
		return CatalogRecord{}, fmt.Errorf("price: %w", err)
	}
	genreID, err := strconv.ParseInt(strings.TrimSpace(d.GenreID), 10, 64)
	if err != nil {
		return CatalogRecord{}, fmt.Errorf("genreId: %w", err)
	}
	year, err := ParseYear(d.DataOfIssue)
	if err != nil {
		return CatalogRecord{}, fmt.Errorf("dataOfIssue: %w", err)
	}

	rec := CatalogRecord{
		Images:      images,
		BookName:    strings.TrimSpace(d.BookName),
		Author:      strings.TrimSpace(d.Author),
		Description: strings.TrimSpace(d.Description),
		Price:       price,
		GenreID:     genreID,
		Language:    strings.TrimSpace(d.Language),
		YearOfIssue: year,
		BestSeller:  d.BestSeller,
		Book: EditionDetails{
			Fragment:        strings.TrimSpace(d.Fragment),
			PublishingHouse: strings.TrimSpace(d.PublishingHouse),
		},
	}

	if raw := strings.TrimSpace(d.Discount); raw != "" {
		discount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return CatalogRecord{}, fmt.Errorf("discount: %w", err)
		}
		rec.Discount = &discount
	}

	if raw := strings.TrimSpace(d.PageSize); raw != "" {
		pages, err := strconv.Atoi(raw)
		if err != nil {
			return CatalogRecord{}, fmt.Errorf("pageSize: %w", err)
		}
		rec.Book.PageSize = pages
	} else if ed.Kind == KindPaper {
		return CatalogRecord{}, errors.New("pageSize: required for paper books")
	}

	switch ed.Kind {
	case KindPaper:
		qty, err := strconv.Atoi(strings.TrimSpace(d.QuantityOfBooks))
		if err != nil {
			return CatalogRecord{}, fmt.Errorf("quantityOfBooks: %w", err)
		}
		rec.Book.QuantityOfBooks = &qty
	case KindElectronic:
		docID := assetIDs[SlotDocument]
		if docID == "" {
			return CatalogRecord{}, fmt.Errorf("%s: %w", SlotDocument, errMissingAssetID)
		}
		rec.Book.ElectronicBookID = docID
	}

	return rec, nil
}
