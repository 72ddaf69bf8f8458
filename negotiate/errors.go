package negotiate

import "github.com/cockroachdb/errors"

// Failure kinds of the negotiation pipeline. None of them are retried: they
// follow from fixed hardware and driver capabilities. Match with errors.Is.
var (
	ErrNoDeviceFound                = errors.New("no physical device supports the graphics API")
	ErrNoSuitableDevice             = errors.New("no physical device is suitable")
	ErrRequiredExtensionUnsupported = errors.New("required extension unsupported")
	ErrDeviceCreationFailed         = errors.New("logical device creation failed")
	ErrSwapchainCreationFailed      = errors.New("swapchain creation failed")
	ErrImageViewCreationFailed      = errors.New("image view creation failed")
	ErrSurfaceQueryFailed           = errors.New("surface query failed")
	ErrIncompleteEnumeration        = errors.New("enumeration kept growing between count and fill")
)

// markf wraps cause with a formatted message and tags it with kind, so that
// both errors.Is(err, kind) and errors.Is(err, cause) hold.
func markf(cause, kind error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(cause, format, args...), kind)
}
