package negotiate

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

const queuePriority = float32(1.0)

// DeviceOptions control logical device creation.
type DeviceOptions struct {
	RequiredExtensions []string
	// OptionalExtensions are enabled only when the device lists them.
	OptionalExtensions     []string
	EnableValidationLayers bool
	ValidationLayers       []string
	EnabledFeatures        DeviceFeatures
}

// LogicalDevice is a created device and the queues retrieved from it.
type LogicalDevice struct {
	Driver        DeviceDriver
	GraphicsQueue Queue
	PresentQueue  Queue
	// Queues holds queue 0 of every distinct requested family.
	Queues     map[int]Queue
	Extensions []string
}

// CreateLogicalDevice creates a device with exactly one queue per distinct
// family in the selection's indices. On success the device's destruction is
// registered with scope.
func CreateLogicalDevice(inst InstanceDriver, selection Selection, opts DeviceOptions, scope *Scope, log logrus.FieldLogger) (*LogicalDevice, error) {
	indices := selection.Indices
	if !indices.IsComplete() {
		return nil, errors.Wrapf(ErrDeviceCreationFailed, "device %d: queue family indices incomplete (graphics %s, present %s)",
			selection.Index, indices.Graphics, indices.Present)
	}

	uniqueQueueFamilies := indices.Unique()
	var queueFamilyOptions []DeviceQueueCreateInfo
	for _, queueFamily := range uniqueQueueFamilies {
		queueFamilyOptions = append(queueFamilyOptions, DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	extensionNames := enabledExtensions(opts.RequiredExtensions, opts.OptionalExtensions, selection.Extensions)

	info := DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledExtensionNames: extensionNames,
		EnabledFeatures:       opts.EnabledFeatures,
	}
	if opts.EnableValidationLayers {
		info.EnabledLayerNames = append(info.EnabledLayerNames, opts.ValidationLayers...)
	}

	driver, err := inst.CreateDevice(selection.Device, info)
	if err != nil {
		return nil, markf(err, ErrDeviceCreationFailed, "device %d (%s)", selection.Index, selection.Properties.Name)
	}
	if driver == nil {
		return nil, errors.Wrapf(ErrDeviceCreationFailed, "device %d (%s): driver returned no device", selection.Index, selection.Properties.Name)
	}
	scope.Defer("device", driver.DestroyDevice)

	device := &LogicalDevice{
		Driver:     driver,
		Queues:     make(map[int]Queue, len(uniqueQueueFamilies)),
		Extensions: extensionNames,
	}
	for _, queueFamily := range uniqueQueueFamilies {
		device.Queues[queueFamily] = driver.GetQueue(queueFamily, 0)
	}
	device.GraphicsQueue = device.Queues[indices.Graphics.MustGet()]
	device.PresentQueue = device.Queues[indices.Present.MustGet()]

	log.WithFields(logrus.Fields{
		"families":   uniqueQueueFamilies,
		"extensions": extensionNames,
		"layers":     info.EnabledLayerNames,
	}).Info("created logical device")

	return device, nil
}

// enabledExtensions returns the required names followed by whichever optional
// names appear in available, without duplicates.
func enabledExtensions(required, optional, available []string) []string {
	seen := make(map[string]struct{}, len(required)+len(optional))
	var names []string
	for _, name := range required {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	supported := make(map[string]struct{}, len(available))
	for _, name := range available {
		supported[name] = struct{}{}
	}
	for _, name := range optional {
		if _, ok := supported[name]; !ok {
			continue
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names
}
