package models

import "gorm.io/gorm"

type MediaType string

const (
	MediaTypeBook  MediaType = "book"
	MediaTypeMovie MediaType = "movie"
	MediaTypeAnime MediaType = "anime"
)

// ValidMediaType reports whether s is one of the known media types.
func ValidMediaType(s string) bool {
	switch MediaType(s) {
	case MediaTypeBook, MediaTypeMovie, MediaTypeAnime:
		return true
	}
	return false
}

// Media represents a catalog entry. Rows are populated by external
// importers; the application only reads them.
type Media struct {
	gorm.Model
	Title       string    `gorm:"size:256;not null;index"`
	Type        MediaType `gorm:"type:varchar(20);not null;index"`
	Author      string    `gorm:"size:256"`
	ReleaseYear int
	Description string `gorm:"type:text"`
	// Duration is minutes for movies/anime and pages for books.
	Duration            *int
	CoverURL            string `gorm:"size:512"`
	ExternalRating      float64
	ExternalRatingCount int `gorm:"index"`

	Genres []*Genre `gorm:"many2many:media_genres;"`
}

// TableName pins the table name; the default pluralizer mangles "media".
func (Media) TableName() string {
	return "media"
}
