package negotiate

import "strconv"

// QueueFamilyIndex is either a queue family index or absent. The zero value is
// absent, so an unset field can never be mistaken for family 0.
type QueueFamilyIndex struct {
	index int
	ok    bool
}

// Some returns a present index.
func Some(index int) QueueFamilyIndex {
	return QueueFamilyIndex{index: index, ok: true}
}

// Get returns the index and whether it is present.
func (i QueueFamilyIndex) Get() (int, bool) {
	return i.index, i.ok
}

func (i QueueFamilyIndex) IsSet() bool {
	return i.ok
}

// MustGet returns the index and panics if it is absent. Only call it once
// IsComplete has been checked.
func (i QueueFamilyIndex) MustGet() int {
	if !i.ok {
		panic("negotiate: queue family index is absent")
	}
	return i.index
}

func (i QueueFamilyIndex) String() string {
	if !i.ok {
		return "none"
	}
	return strconv.Itoa(i.index)
}

type QueueFamilyIndices struct {
	Graphics QueueFamilyIndex
	Present  QueueFamilyIndex
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.Graphics.IsSet() && i.Present.IsSet()
}

// Unique returns the distinct families, graphics first. Call only on complete
// indices.
func (i QueueFamilyIndices) Unique() []int {
	families := []int{i.Graphics.MustGet()}
	if present := i.Present.MustGet(); present != families[0] {
		families = append(families, present)
	}
	return families
}

// FindQueueFamilies resolves the first family that can take graphics work and
// the first family that can present to surface. Both scans walk the same list
// in order and may land on different families. Incomplete indices are not an
// error here; callers check IsComplete.
func FindQueueFamilies(inst InstanceDriver, surf SurfaceDriver, surface Surface, device PhysicalDevice) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}

	queueFamilies, err := Enumerate(func(buf []QueueFamilyProperties) (int, error) {
		return inst.GetPhysicalDeviceQueueFamilyProperties(device, buf)
	})
	if err != nil {
		return indices, err
	}

	for queueFamilyIdx, queueFamily := range queueFamilies {
		if queueFamily.QueueCount == 0 {
			continue
		}

		if !indices.Graphics.IsSet() && queueFamily.QueueFlags&QueueGraphics != 0 {
			indices.Graphics = Some(queueFamilyIdx)
		}

		if !indices.Present.IsSet() {
			supported, err := surf.GetPhysicalDeviceSurfaceSupport(surface, device, queueFamilyIdx)
			if err != nil {
				return indices, markf(err, ErrSurfaceQueryFailed, "queue family %d present support", queueFamilyIdx)
			}
			if supported {
				indices.Present = Some(queueFamilyIdx)
			}
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}
