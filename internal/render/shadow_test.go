package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestMakeCardExpandsBounds(t *testing.T) {
	img := solid(10, 10, color.RGBA{R: 255, A: 255})
	opts := CardOptions{ShadowRadius: 4, ShadowOffset: image.Pt(8, 6), ShadowOpacity: 0.5}
	card := MakeCard(img, opts)
	if card.Image == nil {
		t.Fatal("expected output image")
	}
	if want := image.Rect(0, 0, 22, 20); !card.Image.Bounds().Eq(want) {
		t.Fatalf("unexpected bounds %v, want %v", card.Image.Bounds(), want)
	}
	if card.Inset != (image.Point{}) {
		t.Fatalf("unexpected inset %v", card.Inset)
	}
	if got := card.Image.RGBAAt(16, 14); got.A == 0 {
		t.Fatal("expected shadow alpha below and right of the card")
	}
	if got := card.Image.RGBAAt(5, 5); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("card content changed: %+v", got)
	}
}

func TestMakeCardWithoutShadowKeepsBounds(t *testing.T) {
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	card := MakeCard(solid(4, 4, fill), CardOptions{ShadowRadius: 12, ShadowOffset: image.Pt(20, 10)})
	if !card.Image.Bounds().Eq(image.Rect(0, 0, 4, 4)) {
		t.Fatalf("bounds changed unexpectedly: %v", card.Image.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := card.Image.RGBAAt(x, y); got != fill {
				t.Fatalf("pixel mismatch at (%d,%d): got %+v want %+v", x, y, got, fill)
			}
		}
	}
}

func TestMakeCardRoundsCorners(t *testing.T) {
	card := MakeCard(solid(100, 100, color.RGBA{G: 255, A: 255}), CardOptions{CornerRadius: 24})
	if a := card.Image.RGBAAt(0, 0).A; a != 0 {
		t.Fatalf("corner should be transparent, alpha=%d", a)
	}
	if a := card.Image.RGBAAt(50, 50).A; a != 255 {
		t.Fatalf("centre should be opaque, alpha=%d", a)
	}
}

func TestBoxBlurSpreadsAlpha(t *testing.T) {
	m := image.NewAlpha(image.Rect(0, 0, 9, 9))
	m.SetAlpha(4, 4, color.Alpha{A: 255})
	boxBlur(m, 1)
	if m.AlphaAt(4, 4).A == 0 || m.AlphaAt(5, 5).A == 0 {
		t.Fatal("expected blur to reach diagonal neighbour")
	}
	if m.AlphaAt(7, 7).A != 0 {
		t.Fatal("blur reached beyond its radius")
	}
}
