package books

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("book not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Kind is the edition a book was created as.
type Kind string

const (
	KindPaper      Kind = "paper"
	KindElectronic Kind = "electronic"
)

// Book is a persisted catalog entry.
type Book struct {
	ID               string
	Kind             Kind
	OwnerID          string
	BookName         string
	Author           string
	Description      string
	Price            float64
	Discount         *float64
	GenreID          int64
	Language         string
	YearOfIssue      int
	BestSeller       bool
	Images           []string
	Fragment         string
	PublishingHouse  string
	PageSize         int
	QuantityOfBooks  *int
	ElectronicBookID string
	CreatedAt        time.Time
}

// CreateRequest is the catalog record accepted by the create endpoints.
type CreateRequest struct {
	Images      []string       `json:"images" validate:"len=3,dive,required"`
	BookName    string         `json:"bookName" validate:"required,max=200"`
	Author      string         `json:"author" validate:"required,max=200"`
	Description string         `json:"description" validate:"required"`
	Price       float64        `json:"price" validate:"gte=0"`
	Discount    *float64       `json:"discount" validate:"omitempty,gte=0,lte=100"`
	GenreID     int64          `json:"genreId" validate:"genre"`
	Language    string         `json:"language" validate:"required,language"`
	YearOfIssue int            `json:"yearOfIssue" validate:"gte=1000,lte=2100"`
	BestSeller  bool           `json:"bestSeller"`
	Book        DetailsRequest `json:"book"`
}

// DetailsRequest is the edition-specific part of CreateRequest.
type DetailsRequest struct {
	Fragment         string `json:"fragment" validate:"required"`
	PublishingHouse  string `json:"publishingHouse" validate:"required"`
	PageSize         int    `json:"pageSize" validate:"gte=0"`
	QuantityOfBooks  *int   `json:"quantityOfBooks" validate:"omitempty,gte=0"`
	ElectronicBookID string `json:"electronicBookId"`
}

// CreateResponse confirms a created book.
type CreateResponse struct {
	ID       string `json:"id"`
	BookName string `json:"bookName"`
}

// Response is the outward-facing representation of a book.
type Response struct {
	ID               string    `json:"id"`
	Kind             Kind      `json:"kind"`
	BookName         string    `json:"bookName"`
	Author           string    `json:"author"`
	Description      string    `json:"description"`
	Price            float64   `json:"price"`
	Discount         *float64  `json:"discount,omitempty"`
	GenreID          int64     `json:"genreId"`
	Language         string    `json:"language"`
	YearOfIssue      int       `json:"yearOfIssue"`
	BestSeller       bool      `json:"bestSeller"`
	Images           []string  `json:"images"`
	Fragment         string    `json:"fragment"`
	PublishingHouse  string    `json:"publishingHouse"`
	PageSize         int       `json:"pageSize,omitempty"`
	QuantityOfBooks  *int      `json:"quantityOfBooks,omitempty"`
	ElectronicBookID string    `json:"electronicBookId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toResponse(b Book) Response {
	return Response{
		ID:               b.ID,
		Kind:             b.Kind,
		BookName:         b.BookName,
		Author:           b.Author,
		Description:      b.Description,
		Price:            b.Price,
		Discount:         b.Discount,
		GenreID:          b.GenreID,
		Language:         b.Language,
		YearOfIssue:      b.YearOfIssue,
		BestSeller:       b.BestSeller,
		Images:           b.Images,
		Fragment:         b.Fragment,
		PublishingHouse:  b.PublishingHouse,
		PageSize:         b.PageSize,
		QuantityOfBooks:  b.QuantityOfBooks,
		ElectronicBookID: b.ElectronicBookID,
		CreatedAt:        b.CreatedAt,
	}
}
