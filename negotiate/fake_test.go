package negotiate

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// fakeDevice is a physical device handle together with everything the fake
// driver reports for it.
type fakeDevice struct {
	props           DeviceProperties
	propsErr        error
	features        DeviceFeatures
	families        []QueueFamilyProperties
	presentFamilies map[int]bool
	supportErr      error
	extensions      []string
	caps            SurfaceCapabilities
	capsErr         error
	formats         []SurfaceFormat
	modes           []PresentMode
	createErr       error
}

func goodDevice(name string) *fakeDevice {
	return &fakeDevice{
		props: DeviceProperties{Name: name, Type: DeviceTypeDiscreteGPU},
		features: DeviceFeatures{
			GeometryShader:    true,
			SamplerAnisotropy: true,
		},
		families:        []QueueFamilyProperties{{QueueFlags: QueueGraphics | QueueCompute, QueueCount: 1}},
		presentFamilies: map[int]bool{0: true},
		extensions:      []string{"VK_KHR_maintenance1", SwapchainExtensionName},
		caps: SurfaceCapabilities{
			MinImageCount:    2,
			MaxImageCount:    8,
			CurrentExtent:    Extent2D{Width: 1024, Height: 768},
			MinImageExtent:   Extent2D{Width: 1, Height: 1},
			MaxImageExtent:   Extent2D{Width: 4096, Height: 4096},
			CurrentTransform: SurfaceTransformIdentity,
		},
		formats: []SurfaceFormat{{Format: FormatB8G8R8A8UNorm, ColorSpace: ColorSpaceSRGBNonlinear}},
		modes:   []PresentMode{PresentModeFIFO, PresentModeMailbox},
	}
}

type fakeSurface struct{}

// fakeDriver implements InstanceDriver and SurfaceDriver. Every create and
// destroy call is appended to events so tests can check ordering.
type fakeDriver struct {
	devices []*fakeDevice
	enumErr error

	deviceInfos []DeviceCreateInfo
	created     []*fakeDeviceDriver

	// Applied to every device driver created.
	swapchainErr   error
	imagesErr      error
	imageCount     int
	viewFailsAt    int
	waitIdleErr    error
	supportQueries int

	events []string
}

func newFakeDriver(devices ...*fakeDevice) *fakeDriver {
	return &fakeDriver{devices: devices, viewFailsAt: -1}
}

func (f *fakeDriver) host(log logrus.FieldLogger) Host {
	return Host{
		Instance: f,
		Surfaces: f,
		Surface:  fakeSurface{},
		Log:      log,
	}
}

func (f *fakeDriver) record(format string, args ...interface{}) {
	f.events = append(f.events, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) EnumeratePhysicalDevices(buf []PhysicalDevice) (int, error) {
	if f.enumErr != nil {
		return 0, f.enumErr
	}
	handles := make([]PhysicalDevice, len(f.devices))
	for i, d := range f.devices {
		handles[i] = d
	}
	return FillFrom(handles, buf), nil
}

func (f *fakeDriver) GetPhysicalDeviceProperties(device PhysicalDevice) (DeviceProperties, error) {
	d := device.(*fakeDevice)
	return d.props, d.propsErr
}

func (f *fakeDriver) GetPhysicalDeviceFeatures(device PhysicalDevice) DeviceFeatures {
	return device.(*fakeDevice).features
}

func (f *fakeDriver) GetPhysicalDeviceQueueFamilyProperties(device PhysicalDevice, buf []QueueFamilyProperties) (int, error) {
	return FillFrom(device.(*fakeDevice).families, buf), nil
}

func (f *fakeDriver) EnumerateDeviceExtensionNames(device PhysicalDevice, buf []string) (int, error) {
	return FillFrom(device.(*fakeDevice).extensions, buf), nil
}

func (f *fakeDriver) CreateDevice(device PhysicalDevice, info DeviceCreateInfo) (DeviceDriver, error) {
	d := device.(*fakeDevice)
	f.deviceInfos = append(f.deviceInfos, info)
	if d.createErr != nil {
		return nil, d.createErr
	}

	f.record("create device %s", d.props.Name)
	dd := &fakeDeviceDriver{parent: f, device: d, queues: map[string]int{}}
	f.created = append(f.created, dd)
	return dd, nil
}

func (f *fakeDriver) GetPhysicalDeviceSurfaceSupport(_ Surface, device PhysicalDevice, queueFamily int) (bool, error) {
	f.supportQueries++
	d := device.(*fakeDevice)
	if d.supportErr != nil {
		return false, d.supportErr
	}
	return d.presentFamilies[queueFamily], nil
}

func (f *fakeDriver) GetPhysicalDeviceSurfaceCapabilities(_ Surface, device PhysicalDevice) (SurfaceCapabilities, error) {
	d := device.(*fakeDevice)
	return d.caps, d.capsErr
}

func (f *fakeDriver) GetPhysicalDeviceSurfaceFormats(_ Surface, device PhysicalDevice, buf []SurfaceFormat) (int, error) {
	return FillFrom(device.(*fakeDevice).formats, buf), nil
}

func (f *fakeDriver) GetPhysicalDeviceSurfacePresentModes(_ Surface, device PhysicalDevice, buf []PresentMode) (int, error) {
	return FillFrom(device.(*fakeDevice).modes, buf), nil
}

type fakeSwapchain struct {
	id   int
	info SwapchainCreateInfo
}

type fakeView struct {
	id    int
	image Image
}

type fakeDeviceDriver struct {
	parent *fakeDriver
	device *fakeDevice

	queues     map[string]int
	swapchains []*fakeSwapchain
	views      []*fakeView
	live       int
	destroyed  bool
}

func (d *fakeDeviceDriver) GetQueue(queueFamily, index int) Queue {
	key := fmt.Sprintf("queue %d/%d", queueFamily, index)
	d.queues[key]++
	return key
}

func (d *fakeDeviceDriver) CreateSwapchain(info SwapchainCreateInfo) (Swapchain, error) {
	if d.parent.swapchainErr != nil {
		return nil, d.parent.swapchainErr
	}
	s := &fakeSwapchain{id: len(d.swapchains) + 1, info: info}
	d.swapchains = append(d.swapchains, s)
	d.live++
	d.parent.record("create swapchain %d", s.id)
	return s, nil
}

func (d *fakeDeviceDriver) GetSwapchainImages(swapchain Swapchain, buf []Image) (int, error) {
	if d.parent.imagesErr != nil {
		return 0, d.parent.imagesErr
	}
	s := swapchain.(*fakeSwapchain)
	count := int(s.info.MinImageCount)
	if d.parent.imageCount > 0 {
		count = d.parent.imageCount
	}
	images := make([]Image, count)
	for i := range images {
		images[i] = fmt.Sprintf("swapchain %d image %d", s.id, i)
	}
	return FillFrom(images, buf), nil
}

func (d *fakeDeviceDriver) DestroySwapchain(swapchain Swapchain) {
	d.live--
	d.parent.record("destroy swapchain %d", swapchain.(*fakeSwapchain).id)
}

func (d *fakeDeviceDriver) CreateImageView(info ImageViewCreateInfo) (ImageView, error) {
	if d.parent.viewFailsAt == len(d.views) {
		return nil, errors.New("out of device memory")
	}
	v := &fakeView{id: len(d.views), image: info.Image}
	d.views = append(d.views, v)
	d.live++
	d.parent.record("create view %d", v.id)
	return v, nil
}

func (d *fakeDeviceDriver) DestroyImageView(view ImageView) {
	d.live--
	d.parent.record("destroy view %d", view.(*fakeView).id)
}

func (d *fakeDeviceDriver) WaitIdle() error {
	d.parent.record("wait idle")
	return d.parent.waitIdleErr
}

func (d *fakeDeviceDriver) DestroyDevice() {
	d.destroyed = true
	d.parent.record("destroy device %s", d.device.props.Name)
}

func nullLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}
