package negotiate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeReleasesInReverseOnce(t *testing.T) {
	log, hook := nullLogger()
	scope := NewScope("test", log)

	var released []string
	for _, name := range []string{"device", "swapchain", "view"} {
		name := name
		scope.Defer(name, func() { released = append(released, name) })
	}
	assert.Equal(t, 3, scope.Len())

	scope.Release()
	assert.Equal(t, []string{"view", "swapchain", "device"}, released)
	assert.Zero(t, scope.Len())
	assert.Len(t, hook.AllEntries(), 3)

	scope.Release()
	assert.Len(t, released, 3)
}

func TestScopeReleaseEmpty(t *testing.T) {
	log, _ := nullLogger()
	assert.NotPanics(t, NewScope("empty", log).Release)
}

func TestScopeDeferDuringRelease(t *testing.T) {
	log, _ := nullLogger()
	scope := NewScope("test", log)

	var released []string
	scope.Defer("outer", func() {
		released = append(released, "outer")
	})
	scope.Defer("inner", func() {
		released = append(released, "inner")
		scope.Defer("late", func() { released = append(released, "late") })
	})

	scope.Release()
	assert.Equal(t, []string{"inner", "late", "outer"}, released)
}

func TestScopeReleaseNil(t *testing.T) {
	var s *Scope
	assert.NotPanics(t, s.Release)
}
