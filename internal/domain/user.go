package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. AccessToken is the opaque bearer credential
// handed out at registration; it never changes for the lifetime of the row.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"type:varchar(20);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	AccessToken  string    `json:"-" gorm:"type:varchar(256);uniqueIndex;not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
