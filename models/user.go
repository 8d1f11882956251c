package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string         `gorm:"unique;not null" json:"email"`
	PasswordHash string         `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Credentials is the body of the login and register endpoints.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=40"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}
