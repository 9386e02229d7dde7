package offer

import "errors"

var (
	ErrOfferNotFound        = errors.New("offer not found")
	ErrOfferAlreadyResolved = errors.New("offer already resolved")
	ErrUnknownOutcome       = errors.New("unknown offer outcome")
)
