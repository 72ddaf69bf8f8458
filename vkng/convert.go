package vkng

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/bootstrap/negotiate"
)

// Enum and flag values are the API's own, so the conversions below are
// plain casts.

func convertProperties(props *core1_0.PhysicalDeviceProperties) negotiate.DeviceProperties {
	return negotiate.DeviceProperties{
		Name:              props.DriverName,
		Type:              negotiate.DeviceType(props.DriverType),
		VendorID:          uint32(props.VendorID),
		DeviceID:          uint32(props.DeviceID),
		APIVersion:        uint32(props.APIVersion),
		DriverVersion:     uint32(props.DriverVersion),
		PipelineCacheUUID: props.PipelineCacheUUID,
	}
}

func convertFeatures(features *core1_0.PhysicalDeviceFeatures) negotiate.DeviceFeatures {
	if features == nil {
		return negotiate.DeviceFeatures{}
	}
	return negotiate.DeviceFeatures{
		GeometryShader:     features.GeometryShader,
		TessellationShader: features.TessellationShader,
		SamplerAnisotropy:  features.SamplerAnisotropy,
		FillModeNonSolid:   features.FillModeNonSolid,
	}
}

func vulkanFeatures(features negotiate.DeviceFeatures) *core1_0.PhysicalDeviceFeatures {
	return &core1_0.PhysicalDeviceFeatures{
		GeometryShader:     features.GeometryShader,
		TessellationShader: features.TessellationShader,
		SamplerAnisotropy:  features.SamplerAnisotropy,
		FillModeNonSolid:   features.FillModeNonSolid,
	}
}

// convertExtent maps the -1 "decided by the swapchain" width to
// negotiate.UndefinedExtent.
func convertExtent(extent core1_0.Extent2D) negotiate.Extent2D {
	if extent.Width < 0 || extent.Height < 0 {
		return negotiate.Extent2D{Width: negotiate.UndefinedExtent, Height: negotiate.UndefinedExtent}
	}
	return negotiate.Extent2D{Width: uint32(extent.Width), Height: uint32(extent.Height)}
}

func vulkanExtent(extent negotiate.Extent2D) core1_0.Extent2D {
	return core1_0.Extent2D{Width: int(extent.Width), Height: int(extent.Height)}
}

func convertCapabilities(caps *khr_surface.SurfaceCapabilities) negotiate.SurfaceCapabilities {
	return negotiate.SurfaceCapabilities{
		MinImageCount:           uint32(caps.MinImageCount),
		MaxImageCount:           uint32(caps.MaxImageCount),
		CurrentExtent:           convertExtent(caps.CurrentExtent),
		MinImageExtent:          convertExtent(caps.MinImageExtent),
		MaxImageExtent:          convertExtent(caps.MaxImageExtent),
		MaxImageArrayLayers:     uint32(caps.MaxImageArrayLayers),
		SupportedTransforms:     negotiate.SurfaceTransformFlags(caps.SupportedTransforms),
		CurrentTransform:        negotiate.SurfaceTransformFlags(caps.CurrentTransform),
		SupportedCompositeAlpha: negotiate.CompositeAlphaFlags(caps.SupportedCompositeAlpha),
		SupportedUsageFlags:     negotiate.ImageUsageFlags(caps.SupportedUsageFlags),
	}
}

func convertSurfaceFormats(formats []khr_surface.SurfaceFormat) []negotiate.SurfaceFormat {
	converted := make([]negotiate.SurfaceFormat, len(formats))
	for i, f := range formats {
		converted[i] = negotiate.SurfaceFormat{
			Format:     negotiate.Format(f.Format),
			ColorSpace: negotiate.ColorSpace(f.ColorSpace),
		}
	}
	return converted
}

func convertPresentModes(modes []khr_surface.PresentMode) []negotiate.PresentMode {
	converted := make([]negotiate.PresentMode, len(modes))
	for i, m := range modes {
		converted[i] = negotiate.PresentMode(m)
	}
	return converted
}

func vulkanSharingMode(mode negotiate.SharingMode) core1_0.SharingMode {
	if mode == negotiate.SharingModeConcurrent {
		return core1_0.SharingModeConcurrent
	}
	return core1_0.SharingModeExclusive
}
