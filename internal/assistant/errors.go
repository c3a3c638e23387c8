package assistant

import "errors"

// Failure taxonomy for extraction and executor steps. Every failure is
// recoverable at the conversation level: the router converts it into a
// user-facing reply and logs the wrapped error, nothing escapes to the
// transport layer.
var (
	// ErrParse means a temporal expression could not be resolved.
	ErrParse = errors.New("could not resolve date/time")

	// ErrNotFound means no event matched the requested title/date.
	ErrNotFound = errors.New("no matching event")

	// ErrBackend means a calendar backend call failed.
	ErrBackend = errors.New("calendar backend call failed")

	// ErrAmbiguous means no intent keyword matched and no date was found.
	ErrAmbiguous = errors.New("ambiguous input")
)

func IsParseError(err error) bool   { return errors.Is(err, ErrParse) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsBackendError(err error) bool { return errors.Is(err, ErrBackend) }
func IsAmbiguous(err error) bool    { return errors.Is(err, ErrAmbiguous) }
