// Package icon draws the tray badge: a short glyph, or a dot, in the tier
// colour on a transparent square canvas.
package icon

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"runtime"
	"sync"

	ico "github.com/sergeymakinen/go-ico"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/juststeveking/pingtray/internal/monitor"
)

// ErrFontUnavailable is returned when a font file cannot be read or parsed
var ErrFontUnavailable = errors.New("font unavailable")

const (
	StyleText = "text"
	StyleDot  = "dot"

	minFontSize = 6
)

// Format is the encoding of the rendered icon
type Format int

const (
	FormatPNG Format = iota
	FormatICO
)

// NativeFormat returns the icon format the tray expects on this platform
func NativeFormat() Format {
	if runtime.GOOS == "windows" {
		return FormatICO
	}
	return FormatPNG
}

var palette = map[monitor.Color]color.RGBA{
	monitor.ColorGray:   {R: 0x8a, G: 0x8a, B: 0x8a, A: 0xff},
	monitor.ColorGreen:  {R: 0x2e, G: 0xcc, B: 0x40, A: 0xff},
	monitor.ColorYellow: {R: 0xff, G: 0xdc, B: 0x00, A: 0xff},
	monitor.ColorOrange: {R: 0xff, G: 0x85, B: 0x1b, A: 0xff},
	monitor.ColorRed:    {R: 0xff, G: 0x41, B: 0x36, A: 0xff},
}

// RGBA returns the pixel colour for a semantic colour
func RGBA(c monitor.Color) color.RGBA {
	if rgba, ok := palette[c]; ok {
		return rgba
	}
	return palette[monitor.ColorGray]
}

// Options configures a Renderer
type Options struct {
	Size     int
	FontSize float64
	Style    string
	// Font is the parsed TrueType font; nil uses the 7x13 bitmap face.
	Font   *opentype.Font
	Format Format
}

// Renderer draws tray icons. It is safe for concurrent use.
type Renderer struct {
	opts Options

	mu    sync.Mutex
	faces map[float64]font.Face
}

// New creates a new renderer
func New(opts Options) *Renderer {
	if opts.Size <= 0 {
		opts.Size = 64
	}
	if opts.FontSize <= 0 {
		opts.FontSize = float64(opts.Size) * 0.6
	}
	if opts.Style == "" {
		opts.Style = StyleText
	}
	return &Renderer{
		opts:  opts,
		faces: make(map[float64]font.Face),
	}
}

// LoadFont reads and parses a TrueType or OpenType font file
func LoadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrFontUnavailable, path, err)
	}
	return f, nil
}

// DefaultFont returns the built-in Go Bold font, or nil if it cannot be parsed
func DefaultFont() *opentype.Font {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil
	}
	return f
}

// FontOrDefault loads the font at path. An empty path, or a font that
// cannot be loaded, yields the built-in font together with the load error.
func FontOrDefault(path string) (*opentype.Font, error) {
	if path == "" {
		return DefaultFont(), nil
	}
	f, err := LoadFont(path)
	if err != nil {
		return DefaultFont(), err
	}
	return f, nil
}

// Render draws the glyph and encodes it in the configured format
func (r *Renderer) Render(text string, c monitor.Color) ([]byte, error) {
	img, err := r.Image(text, c)
	if err != nil {
		return nil, err
	}
	return Encode(img, r.opts.Format)
}

// Image draws the glyph onto a new transparent canvas
func (r *Renderer) Image(text string, c monitor.Color) (*image.RGBA, error) {
	size := r.opts.Size
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	col := RGBA(c)

	if r.opts.Style == StyleDot {
		drawDot(img, col)
		return img, nil
	}

	face, err := r.fitFace(text)
	if err != nil {
		return nil, err
	}

	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	width := d.MeasureString(text)
	m := face.Metrics()

	x := (fixed.I(size) - width) / 2
	y := (fixed.I(size) + m.Ascent - m.Descent) / 2

	// Shadow first for contrast on light and dark panels
	shadow := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{A: 0xb4}),
		Face: face,
		Dot:  fixed.Point26_6{X: x + fixed.I(1), Y: y + fixed.I(1)},
	}
	shadow.DrawString(text)

	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)

	return img, nil
}

// fitFace returns a face at the configured size, shrunk until text fits
// the canvas width
func (r *Renderer) fitFace(text string) (font.Face, error) {
	if r.opts.Font == nil {
		return basicfont.Face7x13, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	avail := fixed.I(r.opts.Size - 2)
	size := r.opts.FontSize
	for {
		face, err := r.face(size)
		if err != nil {
			return nil, err
		}
		width := font.MeasureString(face, text)
		if width <= avail || size <= minFontSize {
			return face, nil
		}
		next := size * float64(avail) / float64(width)
		if next >= size {
			next = size - 1
		}
		if next < minFontSize {
			next = minFontSize
		}
		size = next
	}
}

// face returns a cached face for size; r.mu must be held
func (r *Renderer) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.opts.Font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	r.faces[size] = f
	return f, nil
}

// drawDot fills an anti-aliased circle covering most of the canvas
func drawDot(img *image.RGBA, col color.RGBA) {
	b := img.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	cx, cy := w/2, h/2
	radius := w * 0.4

	// Four cubic arcs; k is the usual bezier circle constant
	const k = 0.5522847
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(cx+radius, cy)
	z.CubeTo(cx+radius, cy+k*radius, cx+k*radius, cy+radius, cx, cy+radius)
	z.CubeTo(cx-k*radius, cy+radius, cx-radius, cy+k*radius, cx-radius, cy)
	z.CubeTo(cx-radius, cy-k*radius, cx-k*radius, cy-radius, cx, cy-radius)
	z.CubeTo(cx+k*radius, cy-radius, cx+radius, cy-k*radius, cx+radius, cy)
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(col), image.Point{})
}

// Encode serialises the icon as PNG or ICO
func Encode(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatICO:
		if err := ico.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode ico: %w", err)
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	}
	return buf.Bytes(), nil
}
