package domain

import "github.com/rotisserie/eris"

var (
	// Location permission denied, unsupported, or the lookup found nothing.
	ErrLocationUnavailable = eris.New("location unavailable")
	ErrEmptyCenterList     = eris.New("emergency center list is empty")
	// Network failure, timeout, or a 5xx from the relay.
	ErrNotifierTransport = eris.New("notifier transport error")
	// The relay or the SMS provider refused the message.
	ErrNotifierRejected  = eris.New("notifier rejected request")
	ErrInvalidCoordinate = eris.New("invalid coordinate")
)
