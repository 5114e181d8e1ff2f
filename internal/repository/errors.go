// Package repository is the data access layer of the booking platform.
// Each entity gets its own repo over the shared *sql.DB; sentinel
// errors below let handlers map failures to HTTP codes without parsing
// driver messages.
package repository

import "errors"

// ErrForbidden: the caller does not own the resource it is touching
// (answered as 403).
var ErrForbidden = errors.New("forbidden")

// ErrConflict: the operation collides with current state, such as a
// slot already taken or a cancel on a completed booking (answered as
// 409).
var ErrConflict = errors.New("conflict")
