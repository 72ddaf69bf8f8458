package negotiate

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// DevicePredicate is a deployment-specific minimum capability a physical
// device must meet. Predicates run first and in order, before any queue or
// surface query, because they only read cached properties.
type DevicePredicate struct {
	Name  string
	Check func(props DeviceProperties, features DeviceFeatures) bool
}

func RequireDeviceType(t DeviceType) DevicePredicate {
	return DevicePredicate{
		Name: t.String() + "-gpu",
		Check: func(props DeviceProperties, _ DeviceFeatures) bool {
			return props.Type == t
		},
	}
}

func RequireFeature(name string, has func(DeviceFeatures) bool) DevicePredicate {
	return DevicePredicate{
		Name: name,
		Check: func(_ DeviceProperties, features DeviceFeatures) bool {
			return has(features)
		},
	}
}

var namedPredicates = map[string]DevicePredicate{
	"discrete-gpu":   RequireDeviceType(DeviceTypeDiscreteGPU),
	"integrated-gpu": RequireDeviceType(DeviceTypeIntegratedGPU),
	"geometry-shader": RequireFeature("geometry-shader", func(f DeviceFeatures) bool {
		return f.GeometryShader
	}),
	"tessellation-shader": RequireFeature("tessellation-shader", func(f DeviceFeatures) bool {
		return f.TessellationShader
	}),
	"sampler-anisotropy": RequireFeature("sampler-anisotropy", func(f DeviceFeatures) bool {
		return f.SamplerAnisotropy
	}),
	"fill-mode-non-solid": RequireFeature("fill-mode-non-solid", func(f DeviceFeatures) bool {
		return f.FillModeNonSolid
	}),
}

// PredicateNames lists the names PredicateByName accepts.
func PredicateNames() []string {
	names := make([]string, 0, len(namedPredicates))
	for name := range namedPredicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func PredicateByName(name string) (DevicePredicate, error) {
	p, ok := namedPredicates[name]
	if !ok {
		return DevicePredicate{}, errors.Newf("unknown device requirement %q", name)
	}
	return p, nil
}

// PredicatesByName resolves names in order.
func PredicatesByName(names []string) ([]DevicePredicate, error) {
	predicates := make([]DevicePredicate, 0, len(names))
	for _, name := range names {
		p, err := PredicateByName(name)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, p)
	}
	return predicates, nil
}
