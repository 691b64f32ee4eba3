package domain

import "github.com/google/uuid"

// Actor is the authenticated user a request is made on behalf of.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Name   string
}
