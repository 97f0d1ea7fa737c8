package models

import (
	"time"
)

type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleMember   Role = "MEMBER"
	RoleReviewer Role = "REVIEWER"
)

// Roles lists every team role, most privileged first.
var Roles = []Role{RoleOwner, RoleMember, RoleReviewer}

type Team struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Slug      string       `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	Name      string       `gorm:"not null;size:200" json:"name"`
	Members   []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Events    []Event      `gorm:"foreignKey:TeamID" json:"events,omitempty"`
}

// TeamMember holds the single role a user has inside a team.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	TeamID    uint      `gorm:"not null;uniqueIndex:idx_team_member" json:"team_id"`
	Team      *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_team_member;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      Role      `gorm:"not null;size:20" json:"role"`
}

func (m *TeamMember) IsOwner() bool {
	return m.Role == RoleOwner
}
