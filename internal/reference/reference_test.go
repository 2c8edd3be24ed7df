package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenresOrderedByID(t *testing.T) {
	list := Genres()
	assert.Len(t, list, len(genres))
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestLanguagesOrderedByName(t *testing.T) {
	list := Languages()
	assert.Len(t, list, len(languages))
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Name, list[i].Name)
	}
}

func TestLookups(t *testing.T) {
	assert.True(t, KnownGenre(3))
	assert.False(t, KnownGenre(0))
	assert.False(t, KnownGenre(99))

	assert.True(t, KnownLanguage("en"))
	assert.True(t, KnownLanguage(" EN "))
	assert.False(t, KnownLanguage("xx"))
	assert.False(t, KnownLanguage(""))

	assert.True(t, ValidYear(MinYear))
	assert.True(t, ValidYear(MaxYear))
	assert.False(t, ValidYear(999))
	assert.False(t, ValidYear(2101))
}
