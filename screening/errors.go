package screening

import "errors"

// Sentinel errors for the screening core. Failure sites wrap these with
// context; match with errors.Is.
var (
	// ErrInvalidInput flags malformed caller input: an empty waveform, a
	// nil record, or a feature set that is not a whole number of frames.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotReady flags use of a classifier before a rule table is
	// established.
	ErrNotReady = errors.New("classifier not ready")
)
