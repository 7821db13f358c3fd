package model

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleUser
}

type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"uniqueIndex;not null;size:50" json:"username"`
	HashedPassword string     `gorm:"not null" json:"-"`
	Email          string     `gorm:"size:255;index" json:"email"`
	FullName       string     `gorm:"size:100" json:"full_name"`
	Role           UserRole   `gorm:"not null;size:20;default:user" json:"role"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == UserRoleAdmin }
