package service

import "errors"

// Domain-level failure sentinels. Handlers map these to HTTP codes; none of
// them is fatal to the process.
var (
	// Connection ledger
	ErrTargetNotFound        = errors.New("user not found, they must sign up for Pledge first")
	ErrSelfConnection        = errors.New("cannot connect to self")
	ErrAlreadyConnected      = errors.New("already connected")
	ErrRequestAlreadyPending = errors.New("request already sent")
	ErrPendingFromOther      = errors.New("they already sent you a request")
	ErrConnectionNotFound    = errors.New("connection not found")

	// Receipt lifecycle
	ErrSelfReceipt      = errors.New("cannot send a receipt to yourself")
	ErrReceiptNotFound  = errors.New("receipt not found")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrAlreadyFinalized = errors.New("receipt already finalized")

	// Onboarding
	ErrMissingFields = errors.New("first name, last name and institution are required")
)
