package idcard

import "errors"

// Request-scoped pipeline failures. None are retriable automatically; the
// client must resubmit. Handlers map them to 4xx/5xx and never surface raw
// internals to the client.
var (
	ErrMissingAttachment     = errors.New("missing attachment")
	ErrUnsupportedAttachment = errors.New("unsupported attachment type")
	ErrPhotoProcessingFailed = errors.New("photo processing failed")
	ErrEncodingFailed        = errors.New("barcode encoding failed")
	ErrRenderWriteFailed     = errors.New("card render write failed")
)
