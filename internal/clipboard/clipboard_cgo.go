//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"fmt"
	"image"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// Publish places the offer on the clipboard. This backend holds a single
// format, so the image wins over the text when both are present.
func Publish(o Offer) error {
	if o.Empty() {
		return fmt.Errorf("nothing to copy")
	}
	if err := ensureInit(); err != nil {
		return err
	}
	if len(o.PNG) > 0 {
		clipboard.Write(clipboard.FmtImage, o.PNG)
		return nil
	}
	clipboard.Write(clipboard.FmtText, []byte(o.Text))
	return nil
}

// ReadImage retrieves PNG image data from the clipboard and decodes it.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return decodePNG(clipboard.Read(clipboard.FmtImage))
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return "", fmt.Errorf("clipboard does not contain text data")
	}
	return string(data), nil
}
