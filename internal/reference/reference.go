// Package reference holds the catalog's fixed lookup data: genres, languages
// and the accepted publication years. The form and the book service share it.
package reference

import (
	"sort"
	"strings"
)

// Publication years the catalog accepts.
const (
	MinYear = 1000
	MaxYear = 2100
)

// Genre is a selectable genre; the form sends its ID.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Language is a selectable language; the form sends its code.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var genres = map[int64]string{
	1:  "Fiction",
	2:  "Non-fiction",
	3:  "Fantasy",
	4:  "Science fiction",
	5:  "Detective",
	6:  "Romance",
	7:  "History",
	8:  "Biography",
	9:  "Children",
	10: "Poetry",
	11: "Science",
	12: "Business",
}

var languages = map[string]string{
	"en": "English",
	"uk": "Ukrainian",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
	"pl": "Polish",
	"it": "Italian",
}

// Genres returns the genre list ordered by ID.
func Genres() []Genre {
	out := make([]Genre, 0, len(genres))
	for id, name := range genres {
		out = append(out, Genre{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Languages returns the language list ordered by name.
func Languages() []Language {
	out := make([]Language, 0, len(languages))
	for code, name := range languages {
		out = append(out, Language{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func KnownGenre(id int64) bool {
	_, ok := genres[id]
	return ok
}

// KnownLanguage matches codes case-insensitively, ignoring surrounding space.
func KnownLanguage(code string) bool {
	_, ok := languages[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// ValidYear reports whether y is an accepted publication year.
func ValidYear(y int) bool {
	return y >= MinYear && y <= MaxYear
}
