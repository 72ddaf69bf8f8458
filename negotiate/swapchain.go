package negotiate

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// DefaultSurfaceFormat and DefaultPresentMode are what the negotiator prefers
// unless told otherwise.
var (
	DefaultSurfaceFormat = SurfaceFormat{Format: FormatB8G8R8A8UNorm, ColorSpace: ColorSpaceSRGBNonlinear}
	DefaultPresentMode   = PresentModeMailbox
)

type SwapchainOptions struct {
	PreferredFormat      SurfaceFormat
	PreferredPresentMode PresentMode
	// ImageUsage is added to the color attachment usage every swapchain gets.
	ImageUsage ImageUsageFlags
}

// ChooseSwapSurfaceFormat returns the first available format equal to
// preferred, or the first available format when none is. It never fails on a
// non-empty list; an empty list yields preferred.
func ChooseSwapSurfaceFormat(availableFormats []SurfaceFormat, preferred SurfaceFormat) SurfaceFormat {
	for _, format := range availableFormats {
		if format == preferred {
			return format
		}
	}

	if len(availableFormats) == 0 {
		return preferred
	}
	return availableFormats[0]
}

// ChooseSwapPresentMode returns preferred if it is available and FIFO
// otherwise. FIFO is guaranteed by the API, listed or not.
func ChooseSwapPresentMode(availablePresentModes []PresentMode, preferred PresentMode) PresentMode {
	for _, presentMode := range availablePresentModes {
		if presentMode == preferred {
			return presentMode
		}
	}

	return PresentModeFIFO
}

// ChooseSwapExtent uses the surface's current extent when it has one.
// Otherwise the surface leaves the size to the swapchain and the preferred
// extent is clamped into the supported range, per dimension.
func ChooseSwapExtent(capabilities SurfaceCapabilities, preferred Extent2D) Extent2D {
	if capabilities.CurrentExtent.Width != UndefinedExtent {
		return capabilities.CurrentExtent
	}

	return Extent2D{
		Width:  clamp(preferred.Width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(preferred.Height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

// clamp bounds v by hi first and lo second, so lo wins if the driver reports
// lo > hi.
func clamp(v, lo, hi uint32) uint32 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ChooseImageCount asks for one image more than the minimum, capped at the
// maximum unless the maximum is zero (unbounded).
func ChooseImageCount(capabilities SurfaceCapabilities) uint32 {
	imageCount := capabilities.MinImageCount
	if imageCount < math.MaxUint32 {
		imageCount++
	}
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

// ChooseSharingMode uses exclusive ownership when one family does both jobs.
// Concurrent sharing costs performance, so it is only used when the graphics
// and present families differ.
func ChooseSharingMode(indices QueueFamilyIndices) (SharingMode, []int) {
	graphicsFamily := indices.Graphics.MustGet()
	presentFamily := indices.Present.MustGet()
	if graphicsFamily == presentFamily {
		return SharingModeExclusive, nil
	}
	return SharingModeConcurrent, []int{graphicsFamily, presentFamily}
}

// SwapchainParameters are the negotiated settings a swapchain is built with.
type SwapchainParameters struct {
	SurfaceFormat      SurfaceFormat
	PresentMode        PresentMode
	Extent             Extent2D
	ImageCount         uint32
	SharingMode        SharingMode
	QueueFamilyIndices []int
	PreTransform       SurfaceTransformFlags
}

// NegotiateSwapchain applies every selection policy to the queried support.
func NegotiateSwapchain(support SwapchainSupportDetails, indices QueueFamilyIndices, preferredExtent Extent2D, opts SwapchainOptions) SwapchainParameters {
	sharingMode, queueFamilyIndices := ChooseSharingMode(indices)
	return SwapchainParameters{
		SurfaceFormat:      ChooseSwapSurfaceFormat(support.Formats, opts.PreferredFormat),
		PresentMode:        ChooseSwapPresentMode(support.PresentModes, opts.PreferredPresentMode),
		Extent:             ChooseSwapExtent(support.Capabilities, preferredExtent),
		ImageCount:         ChooseImageCount(support.Capabilities),
		SharingMode:        sharingMode,
		QueueFamilyIndices: queueFamilyIndices,
		PreTransform:       support.Capabilities.CurrentTransform,
	}
}

// CreateInfo builds the driver request for these parameters.
func (p SwapchainParameters) CreateInfo(surface Surface, usage ImageUsageFlags) SwapchainCreateInfo {
	return SwapchainCreateInfo{
		Surface: surface,

		MinImageCount:    p.ImageCount,
		ImageFormat:      p.SurfaceFormat.Format,
		ImageColorSpace:  p.SurfaceFormat.ColorSpace,
		ImageExtent:      p.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       ImageUsageColorAttachment | usage,

		ImageSharingMode:   p.SharingMode,
		QueueFamilyIndices: p.QueueFamilyIndices,

		PreTransform:   p.PreTransform,
		CompositeAlpha: CompositeAlphaOpaque,
		PresentMode:    p.PresentMode,
		Clipped:        true,
	}
}

// SwapchainResources is a created swapchain, its driver-owned images and one
// view per image, index aligned.
type SwapchainResources struct {
	Handle     Swapchain
	Parameters SwapchainParameters
	Images     []Image
	Views      []ImageView
}

func (s *SwapchainResources) Format() Format {
	return s.Parameters.SurfaceFormat.Format
}

func (s *SwapchainResources) Extent() Extent2D {
	return s.Parameters.Extent
}

// CreateSwapchain negotiates parameters from support, creates the swapchain
// and retrieves its images. The swapchain's destruction is registered with
// scope; image views are left to CreateImageViews.
func CreateSwapchain(device *LogicalDevice, surface Surface, support SwapchainSupportDetails, indices QueueFamilyIndices, preferredExtent Extent2D, opts SwapchainOptions, scope *Scope, log logrus.FieldLogger) (*SwapchainResources, error) {
	if !support.Adequate() {
		return nil, errors.Wrapf(ErrSwapchainCreationFailed, "surface reports %d formats and %d present modes",
			len(support.Formats), len(support.PresentModes))
	}
	if !indices.IsComplete() {
		return nil, errors.Wrapf(ErrSwapchainCreationFailed, "queue family indices incomplete (graphics %s, present %s)",
			indices.Graphics, indices.Present)
	}

	params := NegotiateSwapchain(support, indices, preferredExtent, opts)

	swapchain, err := device.Driver.CreateSwapchain(params.CreateInfo(surface, opts.ImageUsage))
	if err != nil {
		return nil, markf(err, ErrSwapchainCreationFailed, "%s %s %s x%d", params.SurfaceFormat, params.PresentMode, params.Extent, params.ImageCount)
	}
	scope.Defer("swapchain", func() {
		device.Driver.DestroySwapchain(swapchain)
	})

	images, err := Enumerate(func(buf []Image) (int, error) {
		return device.Driver.GetSwapchainImages(swapchain, buf)
	})
	if err != nil {
		return nil, markf(err, ErrSwapchainCreationFailed, "swapchain images")
	}

	log.WithFields(logrus.Fields{
		"format":      params.SurfaceFormat,
		"presentMode": params.PresentMode,
		"extent":      params.Extent,
		"minImages":   params.ImageCount,
		"images":      len(images),
		"sharing":     params.SharingMode,
	}).Info("created swapchain")

	return &SwapchainResources{
		Handle:     swapchain,
		Parameters: params,
		Images:     images,
	}, nil
}
