package db

import "errors"

// ErrNotFound is returned when a lookup or update targets a row that does
// not exist. Callers map it to a 404; everything else wrapped by this
// package is a store failure and maps to a 500.
var ErrNotFound = errors.New("record not found")
