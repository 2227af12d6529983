package db

import "strings"

// IsUniqueViolation reports whether err looks like a Postgres unique
// constraint failure. With a constraint name it matches that constraint
// specifically, otherwise any duplicate-key error counts.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && constraintName == "" {
		return false
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return true
}
