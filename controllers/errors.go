package controllers

import (
	"errors"
	"strings"
)

var (
	ErrNoPermission = errors.New("you do not have permission to perform this action")
	ErrNotFound     = errors.New("record not found")
)

// isDuplicateErr detects unique-constraint violations from both the MySQL
// driver and the sqlite driver used in tests.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
