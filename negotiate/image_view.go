package negotiate

import "fmt"

// CreateImageViews creates one 2D color view per image, in image order. Each
// view is registered with scope as soon as it exists, so the views made before
// a failure are still released.
func CreateImageViews(device DeviceDriver, images []Image, format Format, scope *Scope) ([]ImageView, error) {
	imageViews := make([]ImageView, 0, len(images))
	for i, image := range images {
		view, err := device.CreateImageView(ImageViewCreateInfo{
			Image:    image,
			ViewType: ImageViewType2D,
			Format:   format,
			Components: ComponentMapping{
				R: ComponentSwizzleIdentity,
				G: ComponentSwizzleIdentity,
				B: ComponentSwizzleIdentity,
				A: ComponentSwizzleIdentity,
			},
			SubresourceRange: ImageSubresourceRange{
				AspectMask:     ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		})
		if err != nil {
			return imageViews, markf(err, ErrImageViewCreationFailed, "image %d of %d", i, len(images))
		}

		scope.Defer(fmt.Sprintf("image view %d", i), func() {
			device.DestroyImageView(view)
		})
		imageViews = append(imageViews, view)
	}

	return imageViews, nil
}
