package ledger

import "errors"

var (
	// ErrNotFound indicates the bill does not exist in the credit ledger.
	ErrNotFound = errors.New("ledger: bill not found")
	// ErrDuplicateBill indicates the (zone, bill no) pair is already issued.
	ErrDuplicateBill = errors.New("ledger: bill already exists")
	// ErrValidation indicates rejected input; no mutation was performed.
	ErrValidation = errors.New("ledger: validation failed")
	// ErrNoDue indicates the bill carries no outstanding due.
	ErrNoDue = errors.New("ledger: no outstanding due for bill")
	// ErrCancelNotArmed indicates a confirm without a matching cancel request.
	ErrCancelNotArmed = errors.New("ledger: cancellation not requested or token expired")
)
