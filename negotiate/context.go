package negotiate

import (
	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
)

// Host is what the pipeline borrows from its collaborators: an instance, the
// surface it presents to and the window's size. Nothing in Host is owned or
// destroyed by a Context.
type Host struct {
	Instance InstanceDriver
	Surfaces SurfaceDriver
	Surface  Surface
	// DrawableSize reports the window size in pixels. It is consulted only
	// when the surface lets the swapchain pick its own extent.
	DrawableSize func() Extent2D
	Log          logrus.FieldLogger
}

// Options configure one Initialize call. Nothing in the pipeline reads
// process-wide settings.
type Options struct {
	EnableValidationLayers   bool
	ValidationLayers         []string
	DeviceExtensions         []string
	OptionalDeviceExtensions []string
	DevicePredicates         []DevicePredicate
	EnabledFeatures          DeviceFeatures
	Swapchain                SwapchainOptions
	// FallbackExtent stands in for Host.DrawableSize when that is nil.
	FallbackExtent Extent2D
}

const (
	SwapchainExtensionName         = "VK_KHR_swapchain"
	PortabilitySubsetExtensionName = "VK_KHR_portability_subset"
	KhronosValidationLayerName     = "VK_LAYER_KHRONOS_validation"
)

const (
	defaultFallbackWidth  uint32 = 800
	defaultFallbackHeight uint32 = 600
)

func DefaultOptions() Options {
	return Options{
		ValidationLayers:         []string{KhronosValidationLayerName},
		DeviceExtensions:         []string{SwapchainExtensionName},
		OptionalDeviceExtensions: []string{PortabilitySubsetExtensionName},
		Swapchain: SwapchainOptions{
			PreferredFormat:      DefaultSurfaceFormat,
			PreferredPresentMode: DefaultPresentMode,
		},
		FallbackExtent: Extent2D{Width: defaultFallbackWidth, Height: defaultFallbackHeight},
	}
}

// Context holds everything the pipeline created. Resources are released in
// reverse creation order by Destroy.
type Context struct {
	host Host
	opts Options
	log  logrus.FieldLogger

	PhysicalDevice Selection
	Device         *LogicalDevice
	Swapchain      *SwapchainResources

	deviceScope    *Scope
	swapchainScope *Scope
}

// Initialize selects a physical device, creates a logical device with its
// queues, negotiates a swapchain and creates its image views. It either
// returns a fully populated Context or an error, in which case everything it
// created has already been released.
func Initialize(host Host, opts Options) (ctx *Context, err error) {
	log := host.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	ctx = &Context{
		host:           host,
		opts:           opts,
		log:            log,
		deviceScope:    NewScope("device", log),
		swapchainScope: NewScope("swapchain", log),
	}
	defer func() {
		if err != nil {
			ctx.Destroy()
			ctx = nil
		}
	}()

	start := hrtime.Now()
	ctx.PhysicalDevice, err = PickPhysicalDevice(host.Instance, host.Surfaces, host.Surface, SelectOptions{
		RequiredExtensions: opts.DeviceExtensions,
		Predicates:         opts.DevicePredicates,
		RequiredFeatures:   opts.EnabledFeatures,
	}, log)
	if err != nil {
		return ctx, err
	}
	log.WithField("elapsed", hrtime.Since(start)).Debug("physical device selection done")

	start = hrtime.Now()
	ctx.Device, err = CreateLogicalDevice(host.Instance, ctx.PhysicalDevice, DeviceOptions{
		RequiredExtensions:     opts.DeviceExtensions,
		OptionalExtensions:     opts.OptionalDeviceExtensions,
		EnableValidationLayers: opts.EnableValidationLayers,
		ValidationLayers:       opts.ValidationLayers,
		EnabledFeatures:        opts.EnabledFeatures,
	}, ctx.deviceScope, log)
	if err != nil {
		return ctx, err
	}
	log.WithField("elapsed", hrtime.Since(start)).Debug("logical device creation done")

	err = ctx.createSwapchain(ctx.PhysicalDevice.Support)
	return ctx, err
}

func (c *Context) preferredExtent() Extent2D {
	if c.host.DrawableSize != nil {
		return c.host.DrawableSize()
	}
	return c.opts.FallbackExtent
}

func (c *Context) createSwapchain(support SwapchainSupportDetails) error {
	start := hrtime.Now()

	swapchain, err := CreateSwapchain(c.Device, c.host.Surface, support, c.PhysicalDevice.Indices,
		c.preferredExtent(), c.opts.Swapchain, c.swapchainScope, c.log)
	if err != nil {
		return err
	}
	c.Swapchain = swapchain

	swapchain.Views, err = CreateImageViews(c.Device.Driver, swapchain.Images, swapchain.Format(), c.swapchainScope)
	if err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{
		"views":   len(swapchain.Views),
		"elapsed": hrtime.Since(start),
	}).Debug("swapchain creation done")
	return nil
}

// RecreateSwapchain waits for the device to go idle, releases the current
// swapchain and its views, and negotiates a new one against freshly queried
// surface support. Used when the window is resized.
func (c *Context) RecreateSwapchain() error {
	if c.Device == nil {
		return errors.New("recreate swapchain: context has no device")
	}

	if err := c.Device.Driver.WaitIdle(); err != nil {
		return errors.Wrap(err, "recreate swapchain: wait idle")
	}

	c.swapchainScope.Release()
	c.Swapchain = nil

	support, err := QuerySwapchainSupport(c.host.Surfaces, c.host.Surface, c.PhysicalDevice.Device)
	if err != nil {
		return err
	}
	c.PhysicalDevice.Support = support

	return c.createSwapchain(support)
}

// Destroy releases image views, then the swapchain, then the device. Only
// resources that were actually created are destroyed, and calling Destroy
// more than once, or on the nil Context a failed Initialize returns, is
// harmless. The instance and surface belong to the caller.
func (c *Context) Destroy() {
	if c == nil {
		return
	}
	c.swapchainScope.Release()
	c.Swapchain = nil

	c.deviceScope.Release()
	c.Device = nil
}
