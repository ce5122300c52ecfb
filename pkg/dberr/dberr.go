// Package dberr classifies storage errors independently of the backend that
// raised them.
package dberr

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// maxUnwrapDepth bounds the walk over wrapped causes.
const maxUnwrapDepth = 10

// uniqueViolation is the SQLSTATE Postgres reports for duplicate keys.
const uniqueViolation = pq.ErrorCode("23505")

// IsUniqueViolation reports whether err, or any cause it wraps, represents a
// store-level uniqueness violation. Postgres is recognized by SQLSTATE;
// lighter backends by their generic "constraint failed" message.
func IsUniqueViolation(err error) bool {
	for depth := 0; err != nil && depth < maxUnwrapDepth; depth++ {
		// Check each level directly rather than with errors.As, which walks
		// the whole chain on its own and would defeat the depth bound.
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == uniqueViolation {
				return true
			}
		} else {
			msg := strings.ToLower(err.Error())
			if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
				return true
			}
		}

		err = errors.Unwrap(err)
	}
	return false
}
