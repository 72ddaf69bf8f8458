package negotiate

// Opaque driver handles. A binding decides what they hold; the pipeline only
// hands them back to the driver that produced them.
type (
	PhysicalDevice any
	Surface        any
	Queue          any
	Swapchain      any
	Image          any
	ImageView      any
)

// Methods taking a buffer follow the count-then-fill protocol described on
// Enumerator.

// InstanceDriver is the part of a graphics API instance the pipeline borrows.
// The instance itself is owned by the caller.
type InstanceDriver interface {
	EnumeratePhysicalDevices(devices []PhysicalDevice) (int, error)
	GetPhysicalDeviceProperties(device PhysicalDevice) (DeviceProperties, error)
	GetPhysicalDeviceFeatures(device PhysicalDevice) DeviceFeatures
	GetPhysicalDeviceQueueFamilyProperties(device PhysicalDevice, families []QueueFamilyProperties) (int, error)
	EnumerateDeviceExtensionNames(device PhysicalDevice, names []string) (int, error)
	CreateDevice(device PhysicalDevice, info DeviceCreateInfo) (DeviceDriver, error)
}

// SurfaceDriver answers presentation queries for a device/surface pair.
type SurfaceDriver interface {
	GetPhysicalDeviceSurfaceSupport(surface Surface, device PhysicalDevice, queueFamily int) (bool, error)
	GetPhysicalDeviceSurfaceCapabilities(surface Surface, device PhysicalDevice) (SurfaceCapabilities, error)
	GetPhysicalDeviceSurfaceFormats(surface Surface, device PhysicalDevice, formats []SurfaceFormat) (int, error)
	GetPhysicalDeviceSurfacePresentModes(surface Surface, device PhysicalDevice, modes []PresentMode) (int, error)
}

// DeviceDriver is a created logical device.
type DeviceDriver interface {
	GetQueue(queueFamily, index int) Queue
	CreateSwapchain(info SwapchainCreateInfo) (Swapchain, error)
	GetSwapchainImages(swapchain Swapchain, images []Image) (int, error)
	DestroySwapchain(swapchain Swapchain)
	CreateImageView(info ImageViewCreateInfo) (ImageView, error)
	DestroyImageView(view ImageView)
	WaitIdle() error
	DestroyDevice()
}

type DeviceQueueCreateInfo struct {
	QueueFamilyIndex int
	QueuePriorities  []float32
}

type DeviceCreateInfo struct {
	QueueCreateInfos      []DeviceQueueCreateInfo
	EnabledExtensionNames []string
	// EnabledLayerNames is ignored by current drivers but still set for
	// implementations that predate instance-only layers.
	EnabledLayerNames []string
	EnabledFeatures   DeviceFeatures
}

type SwapchainCreateInfo struct {
	Surface Surface

	MinImageCount    uint32
	ImageFormat      Format
	ImageColorSpace  ColorSpace
	ImageExtent      Extent2D
	ImageArrayLayers uint32
	ImageUsage       ImageUsageFlags

	ImageSharingMode   SharingMode
	QueueFamilyIndices []int

	PreTransform   SurfaceTransformFlags
	CompositeAlpha CompositeAlphaFlags
	PresentMode    PresentMode
	Clipped        bool
	OldSwapchain   Swapchain
}

type ImageSubresourceRange struct {
	AspectMask     ImageAspectFlags
	BaseMipLevel   int
	LevelCount     int
	BaseArrayLayer int
	LayerCount     int
}

type ImageViewCreateInfo struct {
	Image            Image
	ViewType         ImageViewType
	Format           Format
	Components       ComponentMapping
	SubresourceRange ImageSubresourceRange
}
