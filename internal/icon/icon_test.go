package icon

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"

	"github.com/juststeveking/pingtray/internal/monitor"
)

func opaquePixels(t *testing.T, r *Renderer, text string, c monitor.Color) int {
	t.Helper()
	img, err := r.Image(text, c)
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestRenderPNG(t *testing.T) {
	r := New(Options{Size: 64, FontSize: 40, Font: DefaultFont()})

	data, err := r.Render("123", monitor.ColorGreen)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Expected valid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("Expected 64x64 icon, got %v", b)
	}

	if opaquePixels(t, r, "123", monitor.ColorGreen) == 0 {
		t.Error("Expected the glyph to draw pixels")
	}
	if opaquePixels(t, r, "", monitor.ColorGreen) != 0 {
		t.Error("Expected empty text to leave the canvas transparent")
	}
}

func TestRenderICO(t *testing.T) {
	r := New(Options{Size: 32, Font: DefaultFont(), Format: FormatICO})

	data, err := r.Render("X", monitor.ColorRed)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// ICONDIR header: reserved 0, type 1
	if len(data) < 6 || !bytes.Equal(data[:4], []byte{0, 0, 1, 0}) {
		t.Errorf("Expected ICO header, got % x", data[:min(len(data), 6)])
	}
}

func TestDotStyle(t *testing.T) {
	r := New(Options{Size: 32, Style: StyleDot})

	img, err := r.Image("ignored", monitor.ColorRed)
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}

	center := img.RGBAAt(16, 16)
	red := RGBA(monitor.ColorRed)
	if center.A < 0xf0 || center.R < red.R-0x10 || center.G > red.G+0x10 {
		t.Errorf("Expected red centre, got %v", center)
	}
	if corner := img.RGBAAt(0, 0); corner.A != 0 {
		t.Errorf("Expected transparent corner, got %v", corner)
	}
}

func TestFontFallback(t *testing.T) {
	f, err := FontOrDefault(filepath.Join(t.TempDir(), "missing.ttf"))
	if !errors.Is(err, ErrFontUnavailable) {
		t.Errorf("Expected ErrFontUnavailable, got %v", err)
	}
	if f == nil {
		t.Fatal("Expected built-in font as fallback")
	}

	// A corrupt font file also falls back
	bad := filepath.Join(t.TempDir(), "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFont(bad); !errors.Is(err, ErrFontUnavailable) {
		t.Errorf("Expected ErrFontUnavailable for corrupt font, got %v", err)
	}

	f, err = FontOrDefault("")
	if err != nil || f == nil {
		t.Errorf("Expected built-in font without error, got %v", err)
	}
}

func TestDefaultFontIsGoBold(t *testing.T) {
	f := DefaultFont()
	if f == nil {
		t.Fatal("Expected the built-in font to parse")
	}
	name, err := f.Name(nil, sfnt.NameIDFull)
	if err != nil {
		t.Fatalf("Name failed: %v", err)
	}
	if name != "Go Bold" {
		t.Errorf("Expected Go Bold, got %q", name)
	}
}

func TestBitmapFaceWithoutFont(t *testing.T) {
	r := New(Options{Size: 32})
	if _, err := r.Render("42", monitor.ColorGreen); err != nil {
		t.Fatalf("Render without font failed: %v", err)
	}
	if opaquePixels(t, r, "42", monitor.ColorGreen) == 0 {
		t.Error("Expected the bitmap face to draw pixels")
	}
}

func TestLongTextShrinks(t *testing.T) {
	r := New(Options{Size: 32, FontSize: 30, Font: DefaultFont()})

	short, err := r.fitFace("1")
	if err != nil {
		t.Fatal(err)
	}
	long, err := r.fitFace("12345")
	if err != nil {
		t.Fatal(err)
	}

	if font.MeasureString(long, "12345") > font.MeasureString(short, "12345") {
		t.Error("Expected long text to use a smaller face")
	}
	if w := font.MeasureString(long, "12345").Ceil(); w > 32 {
		t.Errorf("Expected long text to fit the canvas, width %d", w)
	}
}

func TestRGBAUnknownColor(t *testing.T) {
	if RGBA(monitor.Color("purple")) != RGBA(monitor.ColorGray) {
		t.Error("Expected unknown colours to fall back to gray")
	}
}
