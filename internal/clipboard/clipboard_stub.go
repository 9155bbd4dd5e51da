//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"image"
)

// Publish is not supported on this platform.
func Publish(Offer) error {
	return fmt.Errorf("clipboard operations are not supported on this platform")
}

// ReadImage is not supported on this platform.
func ReadImage() (image.Image, error) {
	return nil, fmt.Errorf("clipboard operations are not supported on this platform")
}

// ReadText is not supported on this platform.
func ReadText() (string, error) {
	return "", fmt.Errorf("clipboard operations are not supported on this platform")
}
