// Package negotiate brings up the device side of a Vulkan renderer against
// hardware that is only known at run time.
//
// Initialize runs the pipeline once, in dependency order:
//
//	PickPhysicalDevice    first device passing predicates, queue, extension and swapchain checks
//	CreateLogicalDevice   one queue per distinct graphics/present family
//	CreateSwapchain       format, present mode, extent, image count and sharing mode
//	CreateImageViews      one 2D color view per swapchain image
//
// and Context.Destroy releases what it created in reverse. The graphics API is
// reached through InstanceDriver, SurfaceDriver and DeviceDriver; package vkng
// implements them on top of vkngwrapper.
package negotiate
