// Package vkng implements the negotiate drivers on top of vkngwrapper and
// creates the instance, debug messenger and window surface they borrow.
package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/bootstrap/negotiate"
)

type InstanceOptions struct {
	ApplicationName string
	// WindowExtensions are the instance extensions the window system needs
	// to create a surface.
	WindowExtensions       []string
	EnableValidationLayers bool
	ValidationLayers       []string
}

// Instance owns a vkngwrapper instance along with the debug messenger and
// surfaces created from it.
type Instance struct {
	Driver   core1_0.CoreInstanceDriver
	Surfaces khr_surface.ExtensionDriver

	debugDriver ext_debug_utils.ExtensionDriver
	log         logrus.FieldLogger
	scope       *negotiate.Scope
}

// CreateInstance checks that every window extension and validation layer is
// available, then creates the instance. With validation enabled a debug
// messenger forwards validation messages to log.
func CreateInstance(global core1_0.GlobalDriver, opts InstanceOptions, log logrus.FieldLogger) (*Instance, error) {
	info := core1_0.InstanceCreateInfo{
		ApplicationName:    opts.ApplicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := global.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}

	for _, ext := range opts.WindowExtensions {
		if _, ok := extensions[ext]; !ok {
			return nil, errors.Wrapf(negotiate.ErrRequiredExtensionUnsupported, "instance extension %s", ext)
		}
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext)
	}

	if _, ok := extensions[khr_portability_enumeration.ExtensionName]; ok {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		info.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if opts.EnableValidationLayers {
		if _, ok := extensions[ext_debug_utils.ExtensionName]; !ok {
			return nil, errors.Wrapf(negotiate.ErrRequiredExtensionUnsupported, "instance extension %s", ext_debug_utils.ExtensionName)
		}
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext_debug_utils.ExtensionName)

		layers, _, err := global.AvailableLayers()
		if err != nil {
			return nil, errors.Wrap(err, "enumerate instance layers")
		}
		for _, layer := range opts.ValidationLayers {
			if _, ok := layers[layer]; !ok {
				return nil, errors.Wrapf(ErrLayerUnavailable, "%s: install the LunarG Vulkan SDK", layer)
			}
			info.EnabledLayerNames = append(info.EnabledLayerNames, layer)
		}

		// Covers instance creation and destruction, which the messenger
		// created below cannot see.
		info.Next = debugMessengerCreateInfo(log)
	}

	driver, _, err := global.CreateInstance(nil, info)
	if err != nil {
		return nil, errors.Wrap(err, "create instance")
	}

	instance := &Instance{
		Driver: driver,
		log:    log,
		scope:  negotiate.NewScope("instance", log),
	}

	instance.Surfaces = khr_surface.CreateExtensionDriverFromCoreDriver(driver)
	if instance.Surfaces == nil {
		instance.Destroy()
		return nil, errors.Wrapf(ErrEntryPointMissing, "%s", khr_surface.ExtensionName)
	}

	if opts.EnableValidationLayers {
		if err := instance.setupDebugMessenger(); err != nil {
			instance.Destroy()
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"extensions": info.EnabledExtensionNames,
		"layers":     info.EnabledLayerNames,
	}).Debug("created instance")
	return instance, nil
}

func (i *Instance) setupDebugMessenger() error {
	i.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.Driver)
	if i.debugDriver == nil {
		return errors.Wrapf(ErrEntryPointMissing, "%s", ext_debug_utils.ExtensionName)
	}

	messenger, _, err := i.debugDriver.CreateDebugUtilsMessenger(nil, debugMessengerCreateInfo(i.log))
	if err != nil {
		return errors.Wrap(err, "create debug messenger")
	}
	i.scope.Defer("debug messenger", func() {
		i.debugDriver.DestroyDebugUtilsMessenger(messenger, nil)
	})
	return nil
}

func debugMessengerCreateInfo(log logrus.FieldLogger) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityInfo,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			log.WithField("type", msgType.String()).Log(severityLevel(severity), data.Message)
			return false
		},
	}
}

// severityLevel maps the most severe bit set in severity to a log level.
func severityLevel(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) logrus.Level {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return logrus.ErrorLevel
	case severity&ext_debug_utils.SeverityWarning != 0:
		return logrus.WarnLevel
	case severity&ext_debug_utils.SeverityInfo != 0:
		return logrus.InfoLevel
	}
	return logrus.DebugLevel
}

// CreateSurface creates a surface for window. It is destroyed with the
// instance.
func (i *Instance) CreateSurface(window *sdl.Window) (khr_surface.Surface, error) {
	surface, err := vkng_sdl2.CreateSurface(i.Driver.Instance(), i.Surfaces, window)
	if err != nil {
		return surface, errors.Wrap(err, "create surface")
	}

	i.scope.Defer("surface", func() {
		i.Surfaces.DestroySurface(surface, nil)
	})
	return surface, nil
}

// Destroy releases every surface, the debug messenger and then the
// instance. Devices created from the instance must already be gone.
func (i *Instance) Destroy() {
	if i.Driver == nil {
		return
	}
	i.scope.Release()
	i.Driver.DestroyInstance(nil)
	i.Driver = nil
}
