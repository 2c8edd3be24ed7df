package submission

import "fmt"

// EditionKind selects the catalog endpoint and the edition-specific fields.
type EditionKind string

const (
	KindPaper      EditionKind = "paper"
	KindElectronic EditionKind = "electronic"
)

// Audience is who fills the form. It only changes the wording of the outcome.
type Audience string

const (
	AudienceAdmin  Audience = "admin"
	AudienceVendor Audience = "vendor"
)

// Slot names one attachment position on the form.
type Slot string

const (
	SlotMainImage   Slot = "mainImage"
	SlotSecondImage Slot = "secondImage"
	SlotThirdImage  Slot = "thirdImage"
	SlotDocument    Slot = "document"
)

// AssetKind is the storage classification of an attachment.
type AssetKind string

const (
	AssetImage    AssetKind = "image"
	AssetDocument AssetKind = "document"
)

// AssetKind reports which upload endpoint the slot goes to.
func (s Slot) AssetKind() AssetKind {
	if s == SlotDocument {
		return AssetDocument
	}
	return AssetImage
}

// ImageSlots are the image positions in catalog order.
var ImageSlots = []Slot{SlotMainImage, SlotSecondImage, SlotThirdImage}

// FieldRule binds a draft field to validator tags.
type FieldRule struct {
	Field string
	Tags  string
}

// Edition describes one flavour of the add-book form.
type Edition struct {
	Kind           EditionKind
	Audience       Audience
	Rules          []FieldRule
	Slots          []Slot
	SuccessMessage string
	FallbackError  string
}

// HasSlot reports whether the edition declares the slot.
func (e Edition) HasSlot(slot Slot) bool {
	for _, s := range e.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

const (
	adminSuccessMessage  = "Book added successfully!"
	vendorSuccessMessage = "Your book has been submitted successfully!"
	fallbackError        = "Something went wrong !"
)

// NewEdition returns the descriptor for a kind/audience pair.
func NewEdition(kind EditionKind, audience Audience) (Edition, error) {
	ed := Edition{
		Kind:           kind,
		Audience:       audience,
		SuccessMessage: adminSuccessMessage,
		FallbackError:  fallbackError,
	}
	switch audience {
	case AudienceAdmin:
	case AudienceVendor:
		ed.SuccessMessage = vendorSuccessMessage
	default:
		return Edition{}, fmt.Errorf("%w: audience %q", ErrUnknownEdition, audience)
	}

	rules := []FieldRule{
		{Field: FieldBookName, Tags: "required,max=200"},
		{Field: FieldAuthor, Tags: "required,max=200"},
		{Field: FieldGenreID, Tags: "required,genre"},
		{Field: FieldPublishingHouse, Tags: "required"},
		{Field: FieldDescription, Tags: "required"},
		{Field: FieldFragment, Tags: "required"},
		{Field: FieldLanguage, Tags: "required,language"},
	}

	switch kind {
	case KindPaper:
		rules = append(rules,
			FieldRule{Field: FieldPageSize, Tags: "required,pages"},
			FieldRule{Field: FieldPrice, Tags: "required,amount"},
			FieldRule{Field: FieldDataOfIssue, Tags: "required,year"},
			FieldRule{Field: FieldQuantityOfBooks, Tags: "required,count"},
			FieldRule{Field: FieldDiscount, Tags: "omitempty,percent"},
		)
		ed.Slots = append([]Slot(nil), ImageSlots...)
	case KindElectronic:
		rules = append(rules,
			FieldRule{Field: FieldPageSize, Tags: "omitempty,count"},
			FieldRule{Field: FieldPrice, Tags: "required,amount"},
			FieldRule{Field: FieldDataOfIssue, Tags: "required,year"},
			FieldRule{Field: FieldDiscount, Tags: "omitempty,percent"},
		)
		ed.Slots = append(append([]Slot(nil), ImageSlots...), SlotDocument)
	default:
		return Edition{}, fmt.Errorf("%w: kind %q", ErrUnknownEdition, kind)
	}
	ed.Rules = rules
	return ed, nil
}
