package render

import (
	"fmt"
	"strings"
)

// ImagePolicy decides what happens to earlier images when a payload brings a
// new one.
type ImagePolicy string

const (
	ImageStack   ImagePolicy = "stack"
	ImageReplace ImagePolicy = "replace"
)

// ParseImagePolicy accepts "stack" or "replace"; empty means stack.
func ParseImagePolicy(s string) (ImagePolicy, error) {
	switch ImagePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImageStack:
		return ImageStack, nil
	case ImageReplace:
		return ImageReplace, nil
	}
	return "", fmt.Errorf("unknown image policy %q (want stack or replace)", s)
}

const (
	imageAlt   = "[vector graph]"
	imageScale = 0.9
	imagePath  = "/get/response/vectorfigure/"
)

// Image is a generated figure held in the images pane.
type Image struct {
	Ref    string
	URL    string
	Alt    string
	Width  int
	Height int
}

func (i Image) String() string {
	return fmt.Sprintf("%s %s (%dx%d)", i.Alt, i.URL, i.Width, i.Height)
}

func newImage(base, ref string, width, height int) Image {
	return Image{
		Ref:    ref,
		URL:    strings.TrimRight(base, "/") + imagePath + ref,
		Alt:    imageAlt,
		Width:  int(float64(width) * imageScale),
		Height: int(float64(height) * imageScale),
	}
}
