package sink

import "errors"

var (
	ErrWriteFailed = errors.New("sink write failed")
	ErrClosed      = errors.New("sink is closed")
)
