package modbus

import "errors"

var (
	// ErrInvalidParameter signals a malformed configuration value — an
	// unknown Mode/Kind, an empty Endpoint, or similar.
	ErrInvalidParameter = errors.New("modbus: given parameter violates restriction")
	// ErrDataSizeExceeded indicates that a requested count exceeds the
	// protocol's per-PDU limit for its function code.
	ErrDataSizeExceeded = errors.New("modbus: data size exceeds limit")
)
