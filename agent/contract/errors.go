package contract

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrModelInvoke         = errors.New("model invoke failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
