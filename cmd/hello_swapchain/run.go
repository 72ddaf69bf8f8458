package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/bootstrap/config"
	"github.com/vkngwrapper/bootstrap/negotiate"
)

func run(cfg config.Config, logger *log.Logger) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	s, err := openSession(cfg, logger, sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, err := negotiate.Initialize(s.host(), opts)
	if err != nil {
		return err
	}
	defer ctx.Destroy()

	logger.WithFields(log.Fields{
		"device":      ctx.PhysicalDevice.Properties.Name,
		"format":      ctx.Swapchain.Format(),
		"presentMode": ctx.Swapchain.Parameters.PresentMode,
		"extent":      ctx.Swapchain.Extent(),
		"images":      len(ctx.Swapchain.Images),
	}).Info("ready")

	return eventLoop(s.window, ctx, logger)
}

// eventLoop blocks on window events until the window is closed, recreating
// the swapchain whenever the window is resized to a non-empty size.
func eventLoop(window *sdl.Window, ctx *negotiate.Context, logger *log.Logger) error {
appLoop:
	for event := sdl.WaitEvent(); event != nil; event = sdl.WaitEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			break appLoop
		case *sdl.WindowEvent:
			if e.Event != sdl.WINDOWEVENT_RESIZED && e.Event != sdl.WINDOWEVENT_RESTORED {
				continue
			}
			w, h := window.VulkanGetDrawableSize()
			if w == 0 || h == 0 || window.GetFlags()&sdl.WINDOW_MINIMIZED != 0 {
				continue
			}
			if err := ctx.RecreateSwapchain(); err != nil {
				return err
			}
			logger.WithField("extent", ctx.Swapchain.Extent()).Info("swapchain recreated")
		}
	}

	return ctx.Device.Driver.WaitIdle()
}
