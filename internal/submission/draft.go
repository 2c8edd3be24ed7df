package submission

import (
	"fmt"
	"strconv"
	"strings"
)

// Draft field names, as the form and the wire spell them.
const (
	FieldBookName        = "bookName"
	FieldAuthor          = "author"
	FieldPublishingHouse = "publishingHouse"
	FieldDescription     = "description"
	FieldFragment        = "fragment"
	FieldPageSize        = "pageSize"
	FieldPrice           = "price"
	FieldDiscount        = "discount"
	FieldDataOfIssue     = "dataOfIssue"
	FieldQuantityOfBooks = "quantityOfBooks"
	FieldBestSeller      = "bestSeller"
	FieldGenreID         = "genreId"
	FieldLanguage        = "language"
)

// Attachment is a pending binary held by a slot until it is uploaded.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Empty reports whether the slot holds nothing worth uploading.
func (a Attachment) Empty() bool {
	return len(a.Data) == 0
}

// Draft is the in-progress form input. Numeric fields stay as typed text.
type Draft struct {
	BookName        string `json:"bookName" yaml:"bookName"`
	Author          string `json:"author" yaml:"author"`
	PublishingHouse string `json:"publishingHouse" yaml:"publishingHouse"`
	Description     string `json:"description" yaml:"description"`
	Fragment        string `json:"fragment" yaml:"fragment"`
	PageSize        string `json:"pageSize" yaml:"pageSize"`
	Price           string `json:"price" yaml:"price"`
	Discount        string `json:"discount" yaml:"discount"`
	DataOfIssue     string `json:"dataOfIssue" yaml:"dataOfIssue"`
	QuantityOfBooks string `json:"quantityOfBooks" yaml:"quantityOfBooks"`
	BestSeller      bool   `json:"bestSeller" yaml:"bestSeller"`
	GenreID         string `json:"genreId" yaml:"genreId"`
	Language        string `json:"language" yaml:"language"`

	Attachments map[Slot]Attachment `json:"-" yaml:"-"`
}

// Value returns the raw text of a scalar field.
func (d Draft) Value(field string) (string, bool) {
	switch field {
	case FieldBookName:
		return d.BookName, true
	case FieldAuthor:
		return d.Author, true
	case FieldPublishingHouse:
		return d.PublishingHouse, true
	case FieldDescription:
		return d.Description, true
	case FieldFragment:
		return d.Fragment, true
	case FieldPageSize:
		return d.PageSize, true
	case FieldPrice:
		return d.Price, true
	case FieldDiscount:
		return d.Discount, true
	case FieldDataOfIssue:
		return d.DataOfIssue, true
	case FieldQuantityOfBooks:
		return d.QuantityOfBooks, true
	case FieldBestSeller:
		return strconv.FormatBool(d.BestSeller), true
	case FieldGenreID:
		return d.GenreID, true
	case FieldLanguage:
		return d.Language, true
	default:
		return "", false
	}
}

// Set assigns a scalar field from user text.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldBookName:
		d.BookName = value
	case FieldAuthor:
		d.Author = value
	case FieldPublishingHouse:
		d.PublishingHouse = value
	case FieldDescription:
		d.Description = value
	case FieldFragment:
		d.Fragment = value
	case FieldPageSize:
		d.PageSize = value
	case FieldPrice:
		d.Price = value
	case FieldDiscount:
		d.Discount = value
	case FieldDataOfIssue:
		d.DataOfIssue = value
	case FieldQuantityOfBooks:
		d.QuantityOfBooks = value
	case FieldBestSeller:
		v := strings.TrimSpace(value)
		if v == "" {
			d.BestSeller = false
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: bestSeller must be true or false", ErrInvalidField)
		}
		d.BestSeller = b
	case FieldGenreID:
		d.GenreID = value
	case FieldLanguage:
		d.Language = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Clone copies the draft; attachment bytes are shared and never mutated.
func (d Draft) Clone() Draft {
	out := d
	out.Attachments = make(map[Slot]Attachment, len(d.Attachments))
	for k, v := range d.Attachments {
		out.Attachments[k] = v
	}
	return out
}
