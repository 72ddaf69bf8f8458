package negotiate

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// Selection is the physical device picked for the pipeline together with the
// data gathered while proving it suitable.
type Selection struct {
	Index      int
	Device     PhysicalDevice
	Properties DeviceProperties
	Features   DeviceFeatures
	Indices    QueueFamilyIndices
	Support    SwapchainSupportDetails
	Extensions []string
}

// Rejection records why one candidate was passed over.
type Rejection struct {
	Index  int
	Name   string
	Reason error
}

func (r Rejection) String() string {
	return fmt.Sprintf("device %d (%s): %v", r.Index, r.Name, r.Reason)
}

// Err returns Reason annotated with the device, keeping its error kind.
func (r Rejection) Err() error {
	return errors.Wrapf(r.Reason, "device %d (%s)", r.Index, r.Name)
}

// CheckDeviceExtensionSupport reports ErrRequiredExtensionUnsupported naming
// every required extension the device does not list. On success it returns
// the device's full extension list.
func CheckDeviceExtensionSupport(inst InstanceDriver, device PhysicalDevice, required []string) ([]string, error) {
	available, err := Enumerate(func(buf []string) (int, error) {
		return inst.EnumerateDeviceExtensionNames(device, buf)
	})
	if err != nil {
		return nil, errors.Wrap(err, "enumerate device extensions")
	}

	missing := make(map[string]struct{}, len(required))
	for _, name := range required {
		missing[name] = struct{}{}
	}
	for _, name := range available {
		delete(missing, name)
	}

	if len(missing) > 0 {
		var names []string
		for _, name := range required {
			if _, ok := missing[name]; ok {
				names = append(names, name)
				delete(missing, name)
			}
		}
		return available, errors.Wrapf(ErrRequiredExtensionUnsupported, "missing %s", strings.Join(names, ", "))
	}

	return available, nil
}

// SelectOptions are the caller-supplied parts of the suitability predicate.
type SelectOptions struct {
	RequiredExtensions []string
	Predicates         []DevicePredicate
	// RequiredFeatures are the features the logical device will enable.
	RequiredFeatures DeviceFeatures
}

// PickPhysicalDevice returns the first enumerated device that satisfies, in
// order: every predicate and required feature, queue family completeness,
// required extension support and swapchain adequacy. There is no scoring; enumeration order
// breaks ties.
func PickPhysicalDevice(inst InstanceDriver, surf SurfaceDriver, surface Surface, opts SelectOptions, log logrus.FieldLogger) (Selection, error) {
	physicalDevices, err := Enumerate(inst.EnumeratePhysicalDevices)
	if err != nil {
		return Selection{}, errors.Wrap(err, "enumerate physical devices")
	}

	if len(physicalDevices) == 0 {
		return Selection{}, errors.WithStack(ErrNoDeviceFound)
	}

	var rejections []Rejection
	for index, device := range physicalDevices {
		selection, reason := evaluateDevice(inst, surf, surface, opts, index, device)
		if reason == nil {
			log.WithFields(logrus.Fields{
				"index":  index,
				"device": selection.Properties.Name,
				"type":   selection.Properties.Type,
			}).Info("selected physical device")
			return selection, nil
		}

		rejection := Rejection{Index: index, Name: selection.Properties.Name, Reason: reason}
		log.WithFields(logrus.Fields{
			"index":  index,
			"device": rejection.Name,
		}).WithError(reason).Debug("physical device rejected")
		rejections = append(rejections, rejection)
	}

	causes := make([]error, 0, len(rejections))
	for _, r := range rejections {
		causes = append(causes, r.Err())
	}
	return Selection{}, markf(errors.Join(causes...), ErrNoSuitableDevice, "no suitable device")
}

// Verdict is the outcome of checking one device. Reason is nil for a
// suitable device.
type Verdict struct {
	Selection Selection
	Reason    error
}

func (v Verdict) Suitable() bool {
	return v.Reason == nil
}

// SurveyPhysicalDevices checks every enumerated device against opts, in
// enumeration order, without stopping at the first suitable one.
func SurveyPhysicalDevices(inst InstanceDriver, surf SurfaceDriver, surface Surface, opts SelectOptions) ([]Verdict, error) {
	physicalDevices, err := Enumerate(inst.EnumeratePhysicalDevices)
	if err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}

	verdicts := make([]Verdict, 0, len(physicalDevices))
	for index, device := range physicalDevices {
		selection, reason := evaluateDevice(inst, surf, surface, opts, index, device)
		verdicts = append(verdicts, Verdict{Selection: selection, Reason: reason})
	}
	return verdicts, nil
}

// evaluateDevice runs the suitability checks cheapest first and stops at the
// first failure, which it returns as the rejection reason.
func evaluateDevice(inst InstanceDriver, surf SurfaceDriver, surface Surface, opts SelectOptions, index int, device PhysicalDevice) (Selection, error) {
	selection := Selection{Index: index, Device: device}

	properties, err := inst.GetPhysicalDeviceProperties(device)
	if err != nil {
		selection.Properties.Name = "unknown"
		return selection, errors.Wrap(err, "query properties")
	}
	selection.Properties = properties
	selection.Features = inst.GetPhysicalDeviceFeatures(device)

	for _, predicate := range opts.Predicates {
		if !predicate.Check(selection.Properties, selection.Features) {
			return selection, errors.Newf("does not meet requirement %s", predicate.Name)
		}
	}
	if missing := selection.Features.Missing(opts.RequiredFeatures); len(missing) > 0 {
		return selection, errors.Newf("missing feature %s", strings.Join(missing, ", "))
	}

	selection.Indices, err = FindQueueFamilies(inst, surf, surface, device)
	if err != nil {
		return selection, err
	}
	if !selection.Indices.Graphics.IsSet() {
		return selection, errors.New("no queue family supports graphics")
	}
	if !selection.Indices.Present.IsSet() {
		return selection, errors.New("no queue family can present to the surface")
	}

	selection.Extensions, err = CheckDeviceExtensionSupport(inst, device, opts.RequiredExtensions)
	if err != nil {
		return selection, err
	}

	selection.Support, err = QuerySwapchainSupport(surf, surface, device)
	if err != nil {
		return selection, err
	}
	if !selection.Support.Adequate() {
		return selection, errors.Newf("inadequate swapchain support: %d formats, %d present modes",
			len(selection.Support.Formats), len(selection.Support.PresentModes))
	}

	return selection, nil
}
