package database

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err came from a unique constraint.
// GORM's error translation covers most paths; raw SQL against Postgres
// surfaces a pq.Error with SQLSTATE 23505 instead.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// IsNotFound reports whether err signals a missing record
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
