package export

import (
	"bytes"
	"image"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF writes a single page PDF sized to the image, in points, with the
// PNG filling the page.
func WritePDF(w io.Writer, pngData []byte, size image.Point, title string) error {
	wd, ht := float64(size.X), float64(size.Y)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("doodlegate", true)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("drawing", opts, bytes.NewReader(pngData))
	pdf.ImageOptions("drawing", 0, 0, wd, ht, false, opts, 0, "")
	return pdf.Output(w)
}
