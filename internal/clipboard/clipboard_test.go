package clipboard

import (
	"image"
	"image/color"
	"testing"
)

func TestOfferImageRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	o, err := OfferImage(img, "caption")
	if err != nil {
		t.Fatalf("OfferImage: %v", err)
	}
	if o.Empty() || o.Text != "caption" {
		t.Fatalf("unexpected offer %+v", o)
	}
	back, err := decodePNG(o.PNG)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, g, b, _ := back.At(1, 1).RGBA(); r>>8 != 9 || g>>8 != 8 || b>>8 != 7 {
		t.Fatalf("pixel changed: %v %v %v", r>>8, g>>8, b>>8)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, err := decodePNG(nil); err == nil {
		t.Fatal("expected error")
	}
}
