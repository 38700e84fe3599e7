package pageshot

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"net/url"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	imprintPadding    = 20
	imprintBorderSize = 1
	imprintFontSize   = 14
)

var (
	imprintFontOnce sync.Once
	imprintFont     *truetype.Font
	imprintFontErr  error
)

// Imprint appends a footer band under img showing the origin of targetURL
// and, if set, the label.
func Imprint(img []byte, targetURL, label string) ([]byte, error) {
	text, err := imprintText(targetURL, label)
	if err != nil {
		return nil, err
	}

	src, err := png.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	face, err := imprintFace()
	if err != nil {
		return nil, err
	}

	w := src.Bounds().Dx()
	h := src.Bounds().Dy() + imprintPadding*2 + imprintBorderSize
	dc := gg.NewContext(w, h)

	dc.DrawImage(src, 0, 0)

	yLine := float64(src.Bounds().Dy())
	dc.SetColor(color.White)
	dc.DrawRectangle(0, yLine, float64(w), float64(h)-yLine)
	dc.Fill()
	dc.SetColor(color.Black)
	dc.SetLineWidth(imprintBorderSize)
	dc.DrawLine(0, yLine, float64(w), yLine)
	dc.Stroke()
	dc.SetFontFace(face)
	dc.DrawStringAnchored(text, float64(w)/2, yLine+imprintPadding, 0.5, 0.35)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}

func imprintText(targetURL, label string) (string, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	text := u.Scheme + "://" + u.Host
	if label = strings.TrimSpace(label); label != "" {
		text += "  " + label
	}
	return text, nil
}

func imprintFace() (font.Face, error) {
	imprintFontOnce.Do(func() {
		imprintFont, imprintFontErr = truetype.Parse(goregular.TTF)
	})
	if imprintFontErr != nil {
		return nil, fmt.Errorf("failed to parse font: %w", imprintFontErr)
	}

	return truetype.NewFace(imprintFont, &truetype.Options{Size: imprintFontSize}), nil
}
