package negotiate

// SwapchainSupportDetails is everything a surface reports for one device,
// unfiltered and in driver order.
type SwapchainSupportDetails struct {
	Capabilities SurfaceCapabilities
	Formats      []SurfaceFormat
	PresentModes []PresentMode
}

// Adequate reports whether a swapchain can be built at all: at least one
// format and one present mode.
func (d SwapchainSupportDetails) Adequate() bool {
	return len(d.Formats) > 0 && len(d.PresentModes) > 0
}

func QuerySwapchainSupport(surf SurfaceDriver, surface Surface, device PhysicalDevice) (SwapchainSupportDetails, error) {
	var details SwapchainSupportDetails
	var err error

	details.Capabilities, err = surf.GetPhysicalDeviceSurfaceCapabilities(surface, device)
	if err != nil {
		return details, markf(err, ErrSurfaceQueryFailed, "surface capabilities")
	}

	details.Formats, err = Enumerate(func(buf []SurfaceFormat) (int, error) {
		return surf.GetPhysicalDeviceSurfaceFormats(surface, device, buf)
	})
	if err != nil {
		return details, markf(err, ErrSurfaceQueryFailed, "surface formats")
	}

	details.PresentModes, err = Enumerate(func(buf []PresentMode) (int, error) {
		return surf.GetPhysicalDeviceSurfacePresentModes(surface, device, buf)
	})
	if err != nil {
		return details, markf(err, ErrSurfaceQueryFailed, "surface present modes")
	}

	return details, nil
}
