// Package models declares the persistent row types shared by repositories
// and services.
package models

import "time"

// User is an account row. PasswordHash holds the "salt:digest" credential
// produced by cryptox and is the only field this core ever mutates.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
}
