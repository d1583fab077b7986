package stores

import (
	"errors"
	"fmt"
)

var (
	ErrReportNotFound  = errors.New("The report does not exist.")
	ErrInvalidStatus   = errors.New("The status is invalid.")
	ErrAlreadyAssigned = errors.New("The report already has an assigned NGO.")
)

// StorageError wraps failures of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("Could not %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}

	return &StorageError{Op: op, Err: err}
}
