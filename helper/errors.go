package helper

import "fmt"

// NewError wraps err with the failing operation for error chains
// that stay readable across the database and handler layers.
func NewError(operation string, err error) error {
	return fmt.Errorf("%v failed: %w", operation, err)
}
