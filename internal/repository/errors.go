// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish a missing record from a database failure.
package repository

import "errors"

// ErrInvoiceNotFound is returned when an invoice id has no row in the
// invoices table.  Handlers translate it into an HTTP 404 response.
var ErrInvoiceNotFound = errors.New("invoice not found")

// ErrInvalidPlay is returned when a play cannot be stored because its
// name is empty or its type is not a supported play type.
var ErrInvalidPlay = errors.New("invalid play")
