// Package repository contains data access logic separated from HTTP handlers.
// This file defines error values shared across repositories.  Sentinel values
// let handlers distinguish failure scenarios: not-found errors map to HTTP
// 404, while ErrConflict signals that an operation cannot proceed because of
// dependent records (e.g. deleting a country that still has dishes).
package repository

import "errors"

// ErrConflict is returned when a delete cannot be performed because other
// rows still reference the target.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
