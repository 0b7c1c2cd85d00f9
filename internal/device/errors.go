package device

import "errors"

// ErrInvalidAction is returned for a camera action other than "on" or "off".
// The message is surfaced verbatim by the HTTP facade.
var ErrInvalidAction = errors.New("Invalid action") //nolint:staticcheck // user-facing message
