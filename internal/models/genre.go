package models

import "gorm.io/gorm"

// Genre represents a media genre (e.g., "Drama", "Fantasy").
type Genre struct {
	gorm.Model
	Name string `gorm:"size:64;unique;not null"`
}
