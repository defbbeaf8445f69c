package models

import (
	"regexp"

	"gorm.io/gorm"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// User represents a registered user of the tracker.
type User struct {
	gorm.Model
	Username       string `gorm:"size:64;unique;not null"`
	PasswordHash   string `gorm:"size:128;not null"`
	DisplayName    string `gorm:"size:50"`
	AvatarFilename string `gorm:"size:256"`
	Gender         string `gorm:"size:20"`
	Age            *int
	About          string `gorm:"type:text"`

	Lists []UserMediaList `gorm:"foreignKey:UserID"`
}

// ValidUsername reports whether a username contains only letters,
// digits and underscores.
func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}
