package submission

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	ed, err := NewEdition(KindPaper, AudienceAdmin)
	require.NoError(t, err)
	assert.Empty(t, Validate(ed, paperDraft()))
}

func TestValidateReportsInRuleOrder(t *testing.T) {
	ed, err := NewEdition(KindPaper, AudienceAdmin)
	require.NoError(t, err)

	d := paperDraft()
	d.Author = ""
	d.Price = "ten"
	d.DataOfIssue = "someday"
	delete(d.Attachments, SlotThirdImage)

	got := Validate(ed, d)
	require.Len(t, got, 4)
	assert.Equal(t, Violation{Field: FieldAuthor, Reason: "is required"}, got[0])
	assert.Equal(t, Violation{Field: FieldPrice, Reason: "must be a non-negative number"}, got[1])
	assert.Equal(t, Violation{Field: FieldDataOfIssue, Reason: "must contain a year between 1000 and 2100"}, got[2])
	assert.Equal(t, Violation{Field: string(SlotThirdImage), Reason: "attachment is required"}, got[3])
}

func TestValidateNumericRules(t *testing.T) {
	ed, err := NewEdition(KindPaper, AudienceAdmin)
	require.NoError(t, err)

	cases := []struct {
		name  string
		field string
		value string
		ok    bool
	}{
		{"price decimal", FieldPrice, "12.50", true},
		{"price negative", FieldPrice, "-1", false},
		{"page size fraction", FieldPageSize, "10.5", false},
		{"quantity zero", FieldQuantityOfBooks, "0", true},
		{"discount blank", FieldDiscount, "", true},
		{"discount over", FieldDiscount, "120", false},
		{"year as date", FieldDataOfIssue, "2020-05-01", true},
		{"genre text", FieldGenreID, "fiction", false},
		{"genre unknown", FieldGenreID, "99", false},
		{"genre known", FieldGenreID, " 12 ", true},
		{"language unknown", FieldLanguage, "xx", false},
		{"language upper case", FieldLanguage, "DE", true},
		{"page size zero", FieldPageSize, "0", false},
		{"page size one", FieldPageSize, "1", true},
		{"year too early", FieldDataOfIssue, "999", false},
		{"year too late", FieldDataOfIssue, "2101", false},
		{"year date too late", FieldDataOfIssue, "2500-01-01", false},
		{"year lower bound", FieldDataOfIssue, "1000", true},
		{"book name too long", FieldBookName, strings.Repeat("a", 201), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := paperDraft()
			require.NoError(t, d.Set(tc.field, tc.value))
			got := Validate(ed, d)
			if tc.ok {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tc.field, got[0].Field)
		})
	}
}

func TestValidateElectronicOptionalFields(t *testing.T) {
	ed, err := NewEdition(KindElectronic, AudienceAdmin)
	require.NoError(t, err)

	d := paperDraft()
	d.PageSize = ""
	d.QuantityOfBooks = ""
	d.Attachments[SlotDocument] = Attachment{Data: []byte("%PDF")}
	assert.Empty(t, Validate(ed, d))
}

func TestValidateElectronicAllowsZeroPageSize(t *testing.T) {
	ed, err := NewEdition(KindElectronic, AudienceAdmin)
	require.NoError(t, err)

	d := paperDraft()
	d.PageSize = "0"
	d.Attachments[SlotDocument] = Attachment{Data: []byte("%PDF")}
	assert.Empty(t, Validate(ed, d))
}

func TestNewEditionRejectsUnknown(t *testing.T) {
	_, err := NewEdition("audiobook", AudienceAdmin)
	assert.ErrorIs(t, err, ErrUnknownEdition)
	_, err = NewEdition(KindPaper, "guest")
	assert.ErrorIs(t, err, ErrUnknownEdition)
}

func TestDraftSet(t *testing.T) {
	var d Draft
	require.NoError(t, d.Set(FieldBestSeller, "true"))
	assert.True(t, d.BestSeller)
	assert.ErrorIs(t, d.Set(FieldBestSeller, "maybe"), ErrInvalidField)
	assert.ErrorIs(t, d.Set("isbn", "1"), ErrUnknownField)
}
