package negotiate

import (
	"fmt"

	"github.com/google/uuid"
)

// Enum values below match the Vulkan ABI so a driver binding can convert with a
// plain cast.

type Format int32

const (
	FormatUndefined          Format = 0
	FormatR8G8B8A8UNorm      Format = 37
	FormatR8G8B8A8SRGB       Format = 43
	FormatB8G8R8A8UNorm      Format = 44
	FormatB8G8R8A8SRGB       Format = 50
	FormatA2B10G10R10UNorm   Format = 64
	FormatR16G16B16A16SFloat Format = 97
)

var formatNames = map[Format]string{
	FormatUndefined:          "UNDEFINED",
	FormatR8G8B8A8UNorm:      "R8G8B8A8_UNORM",
	FormatR8G8B8A8SRGB:       "R8G8B8A8_SRGB",
	FormatB8G8R8A8UNorm:      "B8G8R8A8_UNORM",
	FormatB8G8R8A8SRGB:       "B8G8R8A8_SRGB",
	FormatA2B10G10R10UNorm:   "A2B10G10R10_UNORM_PACK32",
	FormatR16G16B16A16SFloat: "R16G16B16A16_SFLOAT",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// ParseFormat looks a format up by the name String reports for it.
func ParseFormat(name string) (Format, bool) {
	for f, n := range formatNames {
		if n == name {
			return f, true
		}
	}
	return FormatUndefined, false
}

type ColorSpace int32

const (
	ColorSpaceSRGBNonlinear      ColorSpace = 0
	ColorSpaceExtendedSRGBLinear ColorSpace = 1000104002
	ColorSpaceHDR10ST2084        ColorSpace = 1000104008
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceSRGBNonlinear:
		return "SRGB_NONLINEAR"
	case ColorSpaceExtendedSRGBLinear:
		return "EXTENDED_SRGB_LINEAR"
	case ColorSpaceHDR10ST2084:
		return "HDR10_ST2084"
	}
	return fmt.Sprintf("ColorSpace(%d)", int32(c))
}

type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFIFO        PresentMode = 2
	PresentModeFIFORelaxed PresentMode = 3
)

var presentModeNames = map[PresentMode]string{
	PresentModeImmediate:   "IMMEDIATE",
	PresentModeMailbox:     "MAILBOX",
	PresentModeFIFO:        "FIFO",
	PresentModeFIFORelaxed: "FIFO_RELAXED",
}

func (m PresentMode) String() string {
	if name, ok := presentModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("PresentMode(%d)", int32(m))
}

// ParsePresentMode looks a present mode up by the name String reports for it.
func ParsePresentMode(name string) (PresentMode, bool) {
	for m, n := range presentModeNames {
		if n == name {
			return m, true
		}
	}
	return PresentModeFIFO, false
}

type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

type DeviceType int32

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return "integrated"
	case DeviceTypeDiscreteGPU:
		return "discrete"
	case DeviceTypeVirtualGPU:
		return "virtual"
	case DeviceTypeCPU:
		return "cpu"
	}
	return "other"
}

type SharingMode int32

const (
	SharingModeExclusive SharingMode = iota
	SharingModeConcurrent
)

func (m SharingMode) String() string {
	if m == SharingModeConcurrent {
		return "concurrent"
	}
	return "exclusive"
}

type ImageUsageFlags uint32

const (
	ImageUsageTransferSrc     ImageUsageFlags = 0x01
	ImageUsageTransferDst     ImageUsageFlags = 0x02
	ImageUsageColorAttachment ImageUsageFlags = 0x10
)

type CompositeAlphaFlags uint32

const CompositeAlphaOpaque CompositeAlphaFlags = 0x01

type SurfaceTransformFlags uint32

const SurfaceTransformIdentity SurfaceTransformFlags = 0x01

type ImageAspectFlags uint32

const ImageAspectColor ImageAspectFlags = 0x01

type ImageViewType int32

const ImageViewType2D ImageViewType = 1

// ComponentSwizzle values; identity is the zero value.
type ComponentSwizzle int32

const ComponentSwizzleIdentity ComponentSwizzle = 0

type ComponentMapping struct {
	R, G, B, A ComponentSwizzle
}

// UndefinedExtent is reported as the current extent width by surfaces whose
// size is decided by the swapchain rather than the window.
const UndefinedExtent = ^uint32(0)

type Extent2D struct {
	Width  uint32
	Height uint32
}

func (e Extent2D) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

func (f SurfaceFormat) String() string {
	return fmt.Sprintf("%s/%s", f.Format, f.ColorSpace)
}

// SurfaceCapabilities are the driver-reported bounds for a device/surface
// pair. A MaxImageCount of zero means there is no upper bound.
type SurfaceCapabilities struct {
	MinImageCount       uint32
	MaxImageCount       uint32
	CurrentExtent       Extent2D
	MinImageExtent      Extent2D
	MaxImageExtent      Extent2D
	MaxImageArrayLayers uint32

	SupportedTransforms     SurfaceTransformFlags
	CurrentTransform        SurfaceTransformFlags
	SupportedCompositeAlpha CompositeAlphaFlags
	SupportedUsageFlags     ImageUsageFlags
}

type QueueFamilyProperties struct {
	QueueFlags QueueFlags
	QueueCount uint32
}

type DeviceProperties struct {
	Name              string
	Type              DeviceType
	VendorID          uint32
	DeviceID          uint32
	APIVersion        uint32
	DriverVersion     uint32
	PipelineCacheUUID uuid.UUID
}

// DeviceFeatures is the subset of physical device features the selection
// predicates and device creation care about.
type DeviceFeatures struct {
	GeometryShader     bool
	TessellationShader bool
	SamplerAnisotropy  bool
	FillModeNonSolid   bool
}

// Missing names the features enabled in required that f does not have.
func (f DeviceFeatures) Missing(required DeviceFeatures) []string {
	var missing []string
	if required.GeometryShader && !f.GeometryShader {
		missing = append(missing, "geometryShader")
	}
	if required.TessellationShader && !f.TessellationShader {
		missing = append(missing, "tessellationShader")
	}
	if required.SamplerAnisotropy && !f.SamplerAnisotropy {
		missing = append(missing, "samplerAnisotropy")
	}
	if required.FillModeNonSolid && !f.FillModeNonSolid {
		missing = append(missing, "fillModeNonSolid")
	}
	return missing
}
