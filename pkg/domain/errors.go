package domain

import "errors"

var (
	// ErrInvalidRequest marks a request rejected before any store call.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAccountNotFound indicates no account exists for the given id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrPaymentMethodNotFound indicates the payment method does not exist
	// under the account's partition.
	ErrPaymentMethodNotFound = errors.New("payment method not found")

	// ErrBeneficiaryNotFound indicates the beneficiary does not exist under
	// the account's partition.
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")

	// ErrInsufficientFunds is a business-rule rejection, not a fault.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrConflict indicates the optimistic-concurrency retry budget was
	// exhausted. No side effect occurred; the whole operation is safe to
	// retry from scratch.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrSettlementAborted indicates the debit step failed after validation
	// passed. No journal entry was appended.
	ErrSettlementAborted = errors.New("settlement aborted")

	// ErrItemNotFound indicates an unknown inventory item.
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrInsufficientStock is the inventory sibling of ErrInsufficientFunds.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTechnicianNotFound indicates an unknown technician.
	ErrTechnicianNotFound = errors.New("technician not found")

	// ErrSlotUnavailable indicates the requested schedule slot is taken.
	ErrSlotUnavailable = errors.New("schedule slot unavailable")

	// ErrJobNotFound indicates an unknown maintenance job.
	ErrJobNotFound = errors.New("maintenance job not found")
)
