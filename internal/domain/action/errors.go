package action

import "errors"

// Sentinel kinds for action decoding errors.
var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrMalformedAction = errors.New("malformed action payload")
)
