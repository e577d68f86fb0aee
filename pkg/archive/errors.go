package archive

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid archive configuration")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
	ErrUploadFailed       = errors.New("archive upload failed")
	ErrAccessDenied       = errors.New("archive bucket access denied")
	ErrBucketNotFound     = errors.New("archive bucket not found")
	ErrServiceUnavailable = errors.New("archive storage temporarily unavailable")
	ErrOperationTimeout   = errors.New("archive operation timed out")
	ErrOperationCanceled  = errors.New("archive operation canceled")
	ErrClosed             = errors.New("archive sink is closed")
)
