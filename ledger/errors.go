package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DuplicatePhoneError reports an attempt to change a customer's phone number
// to one already used by another customer. Creating a customer with an
// existing phone number is not an error: AddCustomer merges by phone.
type DuplicatePhoneError struct {
	PhoneNumber string
	ExistingID  uuid.UUID
}

func (e *DuplicatePhoneError) Error() string {
	return fmt.Sprintf("phone number %s already belongs to customer %s", e.PhoneNumber, e.ExistingID)
}

// InvalidStateError reports an operation applied to an entity whose current
// state does not permit it, such as completing an already completed job.
type InvalidStateError struct {
	Entity string
	ID     uuid.UUID
	State  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is %s", e.Entity, e.ID, e.State)
}

// ValidationError reports a missing or malformed field on input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistError wraps a storage failure that happened after the in-memory
// change was applied. The in-memory state may be ahead of the stored state;
// callers decide whether to retry persistence or reload.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("in-memory state may be ahead of stored state: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
