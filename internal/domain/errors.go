package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrMalformedItem indicates a catalog payload that could not be
	// normalized into a canonical Item.
	ErrMalformedItem = errors.New("malformed catalog item")

	// ErrRewardAlreadyApplied indicates the ticket already carries its one
	// allowed reward.
	ErrRewardAlreadyApplied = errors.New("reward already applied")

	// ErrNoEligibleLine indicates no ticket line qualifies for the reward.
	ErrNoEligibleLine = errors.New("no eligible line for reward")

	// ErrEmptyTicket blocks checkout on an empty ticket.
	ErrEmptyTicket = errors.New("ticket is empty")

	// ErrInvalidPhone blocks checkout on a syntactically invalid phone.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrAddressRequired blocks the delivery path without a resolved address.
	ErrAddressRequired = errors.New("address required")

	// ErrQuotePending blocks submission while the shipping quote is still
	// being calculated.
	ErrQuotePending = errors.New("shipping quote pending")

	// ErrQuoteFailed blocks the delivery path when the quote lookup errored.
	ErrQuoteFailed = errors.New("shipping quote failed")

	// ErrInsufficientCash indicates the tendered amount does not cover the
	// total.
	ErrInsufficientCash = errors.New("insufficient cash tendered")

	// ErrInvalidTransition indicates the requested action is not allowed in
	// the current checkout state.
	ErrInvalidTransition = errors.New("invalid checkout transition")

	// ErrConfirmationInFlight indicates a payment confirmation is already
	// outstanding for this flow.
	ErrConfirmationInFlight = errors.New("payment confirmation in flight")
)
