package vkng

import "github.com/cockroachdb/errors"

var (
	// ErrLayerUnavailable is returned when a requested validation layer is
	// not installed.
	ErrLayerUnavailable = errors.New("layer unavailable")
	// ErrEntryPointMissing is returned when an extension's functions could
	// not be loaded from the instance or device.
	ErrEntryPointMissing = errors.New("extension entry points missing")
)
