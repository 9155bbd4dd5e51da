// Package clipboard publishes finished drawings to the desktop clipboard
// and can fetch a picture from it to draw on.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
)

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

// Offer is what a copy puts on the clipboard. Backends that can hold
// several formats offer both; the others prefer the image.
type Offer struct {
	PNG  []byte
	Text string
}

// Empty reports whether there is nothing to offer.
func (o Offer) Empty() bool { return len(o.PNG) == 0 && o.Text == "" }

// OfferImage encodes img as PNG and pairs it with text.
func OfferImage(img image.Image, text string) (Offer, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Offer{}, err
	}
	return Offer{PNG: buf.Bytes(), Text: text}, nil
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func decodePNG(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	return png.Decode(bytes.NewReader(data))
}
