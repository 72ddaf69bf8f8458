package main

import (
	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/negotiate"
	"github.com/vkngwrapper/bootstrap/vkng"
)

// session is the window, instance and surface that outlive any negotiated
// device.
type session struct {
	window   *sdl.Window
	instance *vkng.Instance
	surface  khr_surface.Surface
	log      *log.Logger
}

func openSession(cfg config.Config, logger *log.Logger, windowFlags uint32) (s *session, err error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.Wrap(err, "init sdl")
	}

	s = &session{log: logger}
	defer func() {
		if err != nil {
			s.Close()
			s = nil
		}
	}()

	s.window, err = sdl.CreateWindow(cfg.Window.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Window.Width), int32(cfg.Window.Height), sdl.WINDOW_VULKAN|windowFlags)
	if err != nil {
		return s, errors.Wrap(err, "create window")
	}

	global, err := core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return s, errors.Wrap(err, "load vulkan")
	}

	s.instance, err = vkng.CreateInstance(global, vkng.InstanceOptions{
		ApplicationName:        cfg.Instance.ApplicationName,
		WindowExtensions:       s.window.VulkanGetInstanceExtensions(),
		EnableValidationLayers: cfg.Instance.EnableValidationLayers,
		ValidationLayers:       cfg.Instance.ValidationLayers,
	}, logger)
	if err != nil {
		return s, err
	}

	s.surface, err = s.instance.CreateSurface(s.window)
	return s, err
}

func (s *session) host() negotiate.Host {
	return negotiate.Host{
		Instance: s.instance,
		Surfaces: s.instance,
		Surface:  s.surface,
		DrawableSize: func() negotiate.Extent2D {
			w, h := s.window.VulkanGetDrawableSize()
			return negotiate.Extent2D{Width: uint32(w), Height: uint32(h)}
		},
		Log: s.log,
	}
}

func (s *session) Close() {
	if s.instance != nil {
		s.instance.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
}
