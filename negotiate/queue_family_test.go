package negotiate

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFamilyIndexZeroValueIsAbsent(t *testing.T) {
	var i QueueFamilyIndex
	_, ok := i.Get()
	assert.False(t, ok)
	assert.Equal(t, "none", i.String())

	zero := Some(0)
	idx, ok := zero.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Panics(t, func() { i.MustGet() })
}

func TestQueueFamilyIndicesUnique(t *testing.T) {
	same := QueueFamilyIndices{Graphics: Some(1), Present: Some(1)}
	assert.Equal(t, []int{1}, same.Unique())

	split := QueueFamilyIndices{Graphics: Some(2), Present: Some(0)}
	assert.Equal(t, []int{2, 0}, split.Unique())
}

func TestFindQueueFamilies(t *testing.T) {
	tests := []struct {
		name     string
		families []QueueFamilyProperties
		present  map[int]bool
		graphics QueueFamilyIndex
		presentI QueueFamilyIndex
	}{
		{
			name:     "one family does both",
			families: []QueueFamilyProperties{{QueueFlags: QueueGraphics, QueueCount: 1}},
			present:  map[int]bool{0: true},
			graphics: Some(0),
			presentI: Some(0),
		},
		{
			name: "separate families",
			families: []QueueFamilyProperties{
				{QueueFlags: QueueTransfer, QueueCount: 2},
				{QueueFlags: QueueGraphics | QueueCompute, QueueCount: 16},
				{QueueFlags: QueueCompute, QueueCount: 4},
			},
			present:  map[int]bool{2: true},
			graphics: Some(1),
			presentI: Some(2),
		},
		{
			name: "first match wins",
			families: []QueueFamilyProperties{
				{QueueFlags: QueueGraphics, QueueCount: 1},
				{QueueFlags: QueueGraphics, QueueCount: 1},
			},
			present:  map[int]bool{0: true, 1: true},
			graphics: Some(0),
			presentI: Some(0),
		},
		{
			name: "empty families are skipped",
			families: []QueueFamilyProperties{
				{QueueFlags: QueueGraphics, QueueCount: 0},
				{QueueFlags: QueueGraphics, QueueCount: 1},
			},
			present:  map[int]bool{0: true, 1: true},
			graphics: Some(1),
			presentI: Some(1),
		},
		{
			name:     "no present support",
			families: []QueueFamilyProperties{{QueueFlags: QueueGraphics, QueueCount: 1}},
			present:  map[int]bool{},
			graphics: Some(0),
		},
		{
			name:     "no graphics support",
			families: []QueueFamilyProperties{{QueueFlags: QueueCompute, QueueCount: 1}},
			present:  map[int]bool{0: true},
			presentI: Some(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := goodDevice("gpu")
			d.families = tt.families
			d.presentFamilies = tt.present
			f := newFakeDriver(d)

			indices, err := FindQueueFamilies(f, f, fakeSurface{}, d)
			require.NoError(t, err)
			assert.Equal(t, tt.graphics, indices.Graphics)
			assert.Equal(t, tt.presentI, indices.Present)
			assert.Equal(t, tt.graphics.IsSet() && tt.presentI.IsSet(), indices.IsComplete())
		})
	}
}

func TestFindQueueFamiliesStopsWhenComplete(t *testing.T) {
	d := goodDevice("gpu")
	d.families = []QueueFamilyProperties{
		{QueueFlags: QueueGraphics, QueueCount: 1},
		{QueueFlags: QueueGraphics, QueueCount: 1},
		{QueueFlags: QueueGraphics, QueueCount: 1},
	}
	d.presentFamilies = map[int]bool{0: true}
	f := newFakeDriver(d)

	_, err := FindQueueFamilies(f, f, fakeSurface{}, d)
	require.NoError(t, err)
	assert.Equal(t, 1, f.supportQueries)
}

func TestFindQueueFamiliesSurfaceQueryFails(t *testing.T) {
	d := goodDevice("gpu")
	d.supportErr = errors.New("surface lost")
	f := newFakeDriver(d)

	_, err := FindQueueFamilies(f, f, fakeSurface{}, d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSurfaceQueryFailed))
	assert.Contains(t, err.Error(), "surface lost")
}
