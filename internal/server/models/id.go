package models

import "github.com/google/uuid"

// ValidID reports whether id has the UUID form every stored row is given.
// Anything else cannot name a row.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
