// Package export turns a flattened drawing into files and share text.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrNothingToExport is returned when there are no strokes to export.
var ErrNothingToExport = errors.New("nothing to export: no strokes drawn")

// DefaultPrefix starts every exported filename unless configured otherwise.
const DefaultPrefix = "masterpiece"

// DefaultHashtags are appended to the share text.
var DefaultHashtags = []string{"DoodleGate", "DigitalArt"}

// Artifact is one exported drawing.
type Artifact struct {
	Image     *image.RGBA
	PNG       []byte
	Round     int
	Strokes   int
	Filename  string
	ShareText string
}

// Options controls naming of artifacts.
type Options struct {
	Prefix   string
	Hashtags []string
}

// New encodes img and fills in the name and share text for a drawing of
// strokes strokes made up to round.
func New(img *image.RGBA, round, strokes int, opts Options) (*Artifact, error) {
	if strokes == 0 {
		return nil, ErrNothingToExport
	}
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	tags := opts.Hashtags
	if tags == nil {
		tags = DefaultHashtags
	}
	return &Artifact{
		Image:     img,
		PNG:       data,
		Round:     round,
		Strokes:   strokes,
		Filename:  Filename(opts.Prefix, round, strokes),
		ShareText: ShareText(round, strokes, tags),
	}, nil
}

// Filename returns "<prefix>-round-<round>-<strokes>-strokes.png".
func Filename(prefix string, round, strokes int) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s-round-%d-%d-strokes.png", prefix, round, strokes)
}

// ShareText returns the caption offered next to the image.
func ShareText(round, strokes int, hashtags []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Check out my masterpiece! 🎨 Round %d with %d %s! 🚀", round, strokes, plural(strokes, "stroke"))
	for _, tag := range hashtags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" {
			continue
		}
		sb.WriteString(" #")
		sb.WriteString(tag)
	}
	return sb.String()
}

// ShareURL returns a web intent link that pre-fills text.
func ShareURL(text string) string {
	return "https://twitter.com/intent/tweet?" + url.Values{"text": {text}}.Encode()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the PNG into dir under the artifact's filename and returns
// the full path. An empty dir means the working directory.
func (a *Artifact) Save(dir string) (string, error) {
	path := a.Filename
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
		path = filepath.Join(dir, a.Filename)
	}
	return path, a.WriteFile(path)
}

// WriteFile writes the artifact to path. A .pdf extension produces a PDF,
// anything else the PNG bytes.
func (a *Artifact) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		err = WritePDF(f, a.PNG, a.Image.Bounds().Size(), a.ShareText)
	} else {
		_, err = f.Write(a.PNG)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
