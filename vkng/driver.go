package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/vkngwrapper/bootstrap/negotiate"
)

var (
	_ negotiate.InstanceDriver = (*Instance)(nil)
	_ negotiate.SurfaceDriver  = (*Instance)(nil)
	_ negotiate.DeviceDriver   = (*Device)(nil)
)

// vkngwrapper allocates its results itself, so the enumerating methods
// below fetch the whole list and hand it to negotiate.FillFrom.

func (i *Instance) EnumeratePhysicalDevices(buf []negotiate.PhysicalDevice) (int, error) {
	devices, _, err := i.Driver.EnumeratePhysicalDevices()
	if err != nil {
		return 0, err
	}

	handles := make([]negotiate.PhysicalDevice, len(devices))
	for idx, device := range devices {
		handles[idx] = device
	}
	return negotiate.FillFrom(handles, buf), nil
}

func (i *Instance) GetPhysicalDeviceProperties(device negotiate.PhysicalDevice) (negotiate.DeviceProperties, error) {
	props, err := i.Driver.GetPhysicalDeviceProperties(device.(core1_0.PhysicalDevice))
	if err != nil {
		return negotiate.DeviceProperties{}, err
	}
	return convertProperties(props), nil
}

func (i *Instance) GetPhysicalDeviceFeatures(device negotiate.PhysicalDevice) negotiate.DeviceFeatures {
	return convertFeatures(i.Driver.GetPhysicalDeviceFeatures(device.(core1_0.PhysicalDevice)))
}

func (i *Instance) GetPhysicalDeviceQueueFamilyProperties(device negotiate.PhysicalDevice, buf []negotiate.QueueFamilyProperties) (int, error) {
	families := i.Driver.GetPhysicalDeviceQueueFamilyProperties(device.(core1_0.PhysicalDevice))

	converted := make([]negotiate.QueueFamilyProperties, len(families))
	for idx, family := range families {
		converted[idx] = negotiate.QueueFamilyProperties{
			QueueFlags: negotiate.QueueFlags(family.QueueFlags),
			QueueCount: uint32(family.QueueCount),
		}
	}
	return negotiate.FillFrom(converted, buf), nil
}

func (i *Instance) EnumerateDeviceExtensionNames(device negotiate.PhysicalDevice, buf []string) (int, error) {
	extensions, _, err := i.Driver.EnumerateDeviceExtensionProperties(device.(core1_0.PhysicalDevice))
	if err != nil {
		return 0, err
	}

	names := maps.Keys(extensions)
	slices.Sort(names)
	return negotiate.FillFrom(names, buf), nil
}

func (i *Instance) CreateDevice(device negotiate.PhysicalDevice, info negotiate.DeviceCreateInfo) (negotiate.DeviceDriver, error) {
	queueInfos := make([]core1_0.DeviceQueueCreateInfo, 0, len(info.QueueCreateInfos))
	for _, q := range info.QueueCreateInfos {
		queueInfos = append(queueInfos, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: q.QueueFamilyIndex,
			QueuePriorities:  q.QueuePriorities,
		})
	}

	driver, _, err := i.Driver.CreateDevice(device.(core1_0.PhysicalDevice), nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueInfos,
		EnabledFeatures:       vulkanFeatures(info.EnabledFeatures),
		EnabledExtensionNames: info.EnabledExtensionNames,
		EnabledLayerNames:     info.EnabledLayerNames,
	})
	if err != nil {
		return nil, err
	}

	swapchains := khr_swapchain.CreateExtensionDriverFromCoreDriver(driver)
	if swapchains == nil {
		driver.DestroyDevice(nil)
		return nil, errors.Wrapf(ErrEntryPointMissing, "%s", khr_swapchain.ExtensionName)
	}

	return &Device{Driver: driver, Swapchains: swapchains}, nil
}

func (i *Instance) GetPhysicalDeviceSurfaceSupport(surface negotiate.Surface, device negotiate.PhysicalDevice, queueFamily int) (bool, error) {
	supported, _, err := i.Surfaces.GetPhysicalDeviceSurfaceSupport(surface.(khr_surface.Surface), device.(core1_0.PhysicalDevice), queueFamily)
	return supported, err
}

func (i *Instance) GetPhysicalDeviceSurfaceCapabilities(surface negotiate.Surface, device negotiate.PhysicalDevice) (negotiate.SurfaceCapabilities, error) {
	caps, _, err := i.Surfaces.GetPhysicalDeviceSurfaceCapabilities(surface.(khr_surface.Surface), device.(core1_0.PhysicalDevice))
	if err != nil {
		return negotiate.SurfaceCapabilities{}, err
	}
	return convertCapabilities(caps), nil
}

func (i *Instance) GetPhysicalDeviceSurfaceFormats(surface negotiate.Surface, device negotiate.PhysicalDevice, buf []negotiate.SurfaceFormat) (int, error) {
	formats, _, err := i.Surfaces.GetPhysicalDeviceSurfaceFormats(surface.(khr_surface.Surface), device.(core1_0.PhysicalDevice))
	if err != nil {
		return 0, err
	}
	return negotiate.FillFrom(convertSurfaceFormats(formats), buf), nil
}

func (i *Instance) GetPhysicalDeviceSurfacePresentModes(surface negotiate.Surface, device negotiate.PhysicalDevice, buf []negotiate.PresentMode) (int, error) {
	modes, _, err := i.Surfaces.GetPhysicalDeviceSurfacePresentModes(surface.(khr_surface.Surface), device.(core1_0.PhysicalDevice))
	if err != nil {
		return 0, err
	}
	return negotiate.FillFrom(convertPresentModes(modes), buf), nil
}

// Device is a logical device with its swapchain extension loaded.
type Device struct {
	Driver     core1_0.CoreDeviceDriver
	Swapchains khr_swapchain.ExtensionDriver
}

func (d *Device) GetQueue(queueFamily, index int) negotiate.Queue {
	return d.Driver.GetQueue(queueFamily, index)
}

func (d *Device) CreateSwapchain(info negotiate.SwapchainCreateInfo) (negotiate.Swapchain, error) {
	swapchain, _, err := d.Swapchains.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: info.Surface.(khr_surface.Surface),

		MinImageCount:    int(info.MinImageCount),
		ImageFormat:      core1_0.Format(info.ImageFormat),
		ImageColorSpace:  khr_surface.ColorSpace(info.ImageColorSpace),
		ImageExtent:      vulkanExtent(info.ImageExtent),
		ImageArrayLayers: int(info.ImageArrayLayers),
		ImageUsage:       core1_0.ImageUsageFlags(info.ImageUsage),

		ImageSharingMode:   vulkanSharingMode(info.ImageSharingMode),
		QueueFamilyIndices: info.QueueFamilyIndices,

		PreTransform:   khr_surface.SurfaceTransformFlags(info.PreTransform),
		CompositeAlpha: khr_surface.CompositeAlphaFlags(info.CompositeAlpha),
		PresentMode:    khr_surface.PresentMode(info.PresentMode),
		Clipped:        info.Clipped,
	})
	if err != nil {
		return nil, err
	}
	return swapchain, nil
}

func (d *Device) GetSwapchainImages(swapchain negotiate.Swapchain, buf []negotiate.Image) (int, error) {
	images, _, err := d.Swapchains.GetSwapchainImages(swapchain.(khr_swapchain.Swapchain))
	if err != nil {
		return 0, err
	}

	handles := make([]negotiate.Image, len(images))
	for idx, image := range images {
		handles[idx] = image
	}
	return negotiate.FillFrom(handles, buf), nil
}

func (d *Device) DestroySwapchain(swapchain negotiate.Swapchain) {
	d.Swapchains.DestroySwapchain(swapchain.(khr_swapchain.Swapchain), nil)
}

func (d *Device) CreateImageView(info negotiate.ImageViewCreateInfo) (negotiate.ImageView, error) {
	// Identity swizzle is the zero value of core1_0.ComponentMapping.
	view, _, err := d.Driver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    info.Image.(core1_0.Image),
		ViewType: core1_0.ImageViewType(info.ViewType),
		Format:   core1_0.Format(info.Format),
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectFlags(info.SubresourceRange.AspectMask),
			BaseMipLevel:   info.SubresourceRange.BaseMipLevel,
			LevelCount:     info.SubresourceRange.LevelCount,
			BaseArrayLayer: info.SubresourceRange.BaseArrayLayer,
			LayerCount:     info.SubresourceRange.LayerCount,
		},
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (d *Device) DestroyImageView(view negotiate.ImageView) {
	d.Driver.DestroyImageView(view.(core1_0.ImageView), nil)
}

func (d *Device) WaitIdle() error {
	_, err := d.Driver.DeviceWaitIdle()
	return err
}

func (d *Device) DestroyDevice() {
	d.Driver.DestroyDevice(nil)
}
