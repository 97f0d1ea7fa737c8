package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is a person known to the system: a speaker, a team member, or both.
type User struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Name       string            `gorm:"not null;size:200" json:"name"`
	Email      string            `gorm:"uniqueIndex;not null;size:320" json:"email"`
	Picture    string            `gorm:"size:500" json:"picture"`
	Bio        string            `gorm:"type:text" json:"bio"`
	Company    string            `gorm:"size:200" json:"company"`
	Location   string            `gorm:"size:200" json:"location"`
	References string            `gorm:"type:text" json:"references"`
	Socials    datatypes.JSONMap `json:"socials"`
}

func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
