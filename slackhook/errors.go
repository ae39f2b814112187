package slackhook

import "errors"

var (
	// ErrMalformedCommand indicates the slash command body could not be decoded.
	ErrMalformedCommand = errors.New("malformed command payload")

	// ErrDeliveryFailed indicates the response URL rejected a notification.
	ErrDeliveryFailed = errors.New("notification delivery failed")
)
