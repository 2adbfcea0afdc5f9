// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/triptales/internal/common"
)

type User struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

func (u *User) IsAdmin() bool { return u.Role == common.RoleAdmin }
