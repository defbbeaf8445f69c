package models

import "time"

// ListType names one of a user's media lists.
type ListType string

const (
	ListPlanned   ListType = "planned"
	ListCompleted ListType = "completed"
	ListFavorite  ListType = "favorite"
)

// ValidListType reports whether s is one of the known list types.
func ValidListType(s string) bool {
	switch ListType(s) {
	case ListPlanned, ListCompleted, ListFavorite:
		return true
	}
	return false
}

// Opposite returns the mutually exclusive counterpart of a list type:
// planned vs. completed. Favorite has no opposite.
func (t ListType) Opposite() (ListType, bool) {
	switch t {
	case ListPlanned:
		return ListCompleted, true
	case ListCompleted:
		return ListPlanned, true
	}
	return "", false
}

// UserMediaList is a membership of a (user, media) pair in one list.
// The same pair may appear in several lists, except that planned and
// completed are mutually exclusive.
type UserMediaList struct {
	UserID   uint     `gorm:"primaryKey"`
	MediaID  uint     `gorm:"primaryKey"`
	ListType ListType `gorm:"type:varchar(20);primaryKey"`
	AddedAt  time.Time

	User  User  `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Media Media `gorm:"foreignKey:MediaID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ListStatus is the tri-state membership of a (user, media) pair.
type ListStatus struct {
	IsPlanned   bool `json:"is_planned"`
	IsCompleted bool `json:"is_completed"`
	IsFavorite  bool `json:"is_favorite"`
}

// Apply sets the flag corresponding to a list type.
func (s *ListStatus) Apply(t ListType) {
	switch t {
	case ListPlanned:
		s.IsPlanned = true
	case ListCompleted:
		s.IsCompleted = true
	case ListFavorite:
		s.IsFavorite = true
	}
}
