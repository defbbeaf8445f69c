package models

import "time"

// FriendshipStatus defines the state of a relationship between two users.
type FriendshipStatus string

const (
	// StatusPending means a friend request has been sent but not yet answered.
	StatusPending FriendshipStatus = "pending"

	// StatusAccepted means the friend request was accepted, and the users are now friends.
	StatusAccepted FriendshipStatus = "accepted"

	// StatusRejected means the recipient turned the request down.
	StatusRejected FriendshipStatus = "rejected"
)

// Friendship represents the relationship between two users. Storage is
// directional (UserID is always the requester) but lookups treat the
// pair as unordered. At most one row exists per unordered pair; the
// existence check before insert enforces this.
type Friendship struct {
	UserID    uint             `gorm:"primaryKey"`
	FriendID  uint             `gorm:"primaryKey"`
	Status    FriendshipStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User   User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Friend User `gorm:"foreignKey:FriendID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
