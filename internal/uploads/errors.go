package uploads

import "errors"

var (
	// ErrMissingAttachment is returned when the request carries no headshot file.
	ErrMissingAttachment = errors.New("missing attachment")
	// ErrAttachmentTooLarge is returned when the headshot exceeds the configured maximum.
	ErrAttachmentTooLarge = errors.New("attachment too large")
)
