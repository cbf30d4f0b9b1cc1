package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user account is inactive")
)

// Lifecycle errors
var (
	ErrMemberNotFound       = errors.New("member not found")
	ErrDependentNotFound    = errors.New("dependent not found")
	ErrPlanNotFound         = errors.New("contribution plan not found")
	ErrContributionNotFound = errors.New("contribution not found")
	ErrLoanNotFound         = errors.New("loan not found")

	// ErrDuplicatePaymentRef: another non-deleted contribution already
	// carries this payment reference.
	ErrDuplicatePaymentRef = errors.New("payment reference already exists")
	// ErrDuplicateContribution: a similar contribution exists for the
	// same member, amount and payment date within the duplicate window.
	ErrDuplicateContribution = errors.New("a similar contribution already exists within the last 3 days")
	// ErrInvalidState: the entity's current status does not permit the
	// requested transition.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrInvalidReason: rejecting a contribution requires a non-blank
	// reason.
	ErrInvalidReason = errors.New("rejection reason is required")
	// ErrInvalidDecision: review decision must be approve or reject.
	ErrInvalidDecision = errors.New("review decision must be approve or reject")
)
