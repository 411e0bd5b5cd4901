/*
# Module: services/share_image.go
Renders the 1200x630 Open Graph card shared for a recipe's donation prompt.

## Linked Modules
- [services/currency](./currency.go) - Amount formatting

## Tags
business-logic, images, social-sharing

## Exports
ShareCard, ImageFetcher, ShareImageRenderer, NewShareImageRenderer, ShareImageWidth, ShareImageHeight, ShareCaption

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/share_image.go" ;
    code:description "Renders the Open Graph card shared for a recipe's donation prompt" ;
    code:linksTo [
        code:name "services/currency" ;
        code:path "./currency.go" ;
        code:relationship "Amount formatting"
    ] ;
    code:exports :ShareCard, :ImageFetcher, :ShareImageRenderer, :NewShareImageRenderer, :ShareImageWidth, :ShareImageHeight, :ShareCaption ;
    code:tags "business-logic", "images", "social-sharing" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"recipe-giving/logging"
)

const (
	ShareImageWidth  = 1200
	ShareImageHeight = 630

	sharePadding    = 40
	shareThumbWidth = 480
)

// ShareCard is what the card shows
type ShareCard struct {
	RecipeName   string
	Category     string
	Area         string
	Amount       string // already formatted, e.g. "£7"
	ThumbnailURL string
}

// ImageFetcher downloads an image body
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// ShareImageRenderer draws share cards. fetcher may be nil to skip thumbnails.
type ShareImageRenderer struct {
	fetcher ImageFetcher

	fontsOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	fontErr   error
}

func NewShareImageRenderer(fetcher ImageFetcher) *ShareImageRenderer {
	return &ShareImageRenderer{fetcher: fetcher}
}

func (r *ShareImageRenderer) loadFonts() error {
	r.fontsOnce.Do(func() {
		if r.regular, r.fontErr = freetype.ParseFont(goregular.TTF); r.fontErr != nil {
			return
		}
		r.bold, r.fontErr = freetype.ParseFont(gobold.TTF)
	})
	return r.fontErr
}

// Render draws the card and encodes it as PNG
func (r *ShareImageRenderer) Render(ctx context.Context, card ShareCard) ([]byte, error) {
	if err := r.loadFonts(); err != nil {
		return nil, errors.Wrap(err, "failed to parse font")
	}

	img := image.NewRGBA(image.Rect(0, 0, ShareImageWidth, ShareImageHeight))
	drawShareBackground(img)

	textWidth := ShareImageWidth - 2*sharePadding
	if thumb := r.thumbnail(ctx, card.ThumbnailURL); thumb != nil {
		drawThumbnail(img, thumb)
		textWidth -= shareThumbWidth + sharePadding
	}

	white := color.RGBA{255, 255, 255, 255}
	y := sharePadding
	y = r.drawText(img, "Donate the cost of", sharePadding, y, textWidth, 30, color.RGBA{200, 230, 210, 255}, false)
	y = r.drawText(img, card.RecipeName, sharePadding, y, textWidth, 56, white, true)

	if subtitle := strings.TrimSpace(strings.Join(nonEmpty(card.Category, card.Area), " · ")); subtitle != "" {
		y = r.drawText(img, subtitle, sharePadding, y, textWidth, 26, color.RGBA{190, 210, 200, 255}, false)
	}

	y += 20
	r.drawText(img, card.Amount, sharePadding, y, textWidth, 96, color.RGBA{255, 214, 102, 255}, true)
	r.drawText(img, "feeds someone who needs it. Pick a hunger-relief project on GlobalGiving.",
		sharePadding, ShareImageHeight-sharePadding-60, textWidth, 22, white, false)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "failed to encode image")
	}
	return buf.Bytes(), nil
}

func (r *ShareImageRenderer) thumbnail(ctx context.Context, url string) image.Image {
	if r.fetcher == nil || url == "" {
		return nil
	}

	log := logging.FromContext(ctx)
	data, err := r.fetcher.FetchImage(ctx, url)
	if err != nil {
		log.WithError(err).Warn("⚠️  Failed to download recipe thumbnail")
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.WithError(err).Warn("⚠️  Failed to decode recipe thumbnail")
		return nil
	}
	return img
}

// drawShareBackground fills the card with a dark green vertical gradient
func drawShareBackground(img *image.RGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		ratio := float64(y) / float64(bounds.Max.Y)
		c := color.RGBA{uint8(15 + ratio*20), uint8(60 + ratio*50), uint8(40 + ratio*30), 255}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawThumbnail scales the recipe photo to cover the right-hand panel
func drawThumbnail(canvas *image.RGBA, src image.Image) {
	panel := image.Rect(ShareImageWidth-shareThumbWidth-sharePadding, sharePadding,
		ShareImageWidth-sharePadding, ShareImageHeight-sharePadding)

	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}

	// crop the source to the panel's aspect ratio, centered
	panelRatio := float64(panel.Dx()) / float64(panel.Dy())
	crop := sb
	if float64(sb.Dx())/float64(sb.Dy()) > panelRatio {
		w := int(float64(sb.Dy()) * panelRatio)
		crop.Min.X = sb.Min.X + (sb.Dx()-w)/2
		crop.Max.X = crop.Min.X + w
	} else {
		h := int(float64(sb.Dx()) / panelRatio)
		crop.Min.Y = sb.Min.Y + (sb.Dy()-h)/2
		crop.Max.Y = crop.Min.Y + h
	}

	draw.CatmullRom.Scale(canvas, panel, src, crop, draw.Over, nil)
}

// drawText draws word-wrapped text and returns the y below the last line
func (r *ShareImageRenderer) drawText(img *image.RGBA, text string, x, y, maxWidth int, size float64, c color.RGBA, bold bool) int {
	f := r.regular
	if bold {
		f = r.bold
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}),
	}

	lineHeight := int(size * 1.25)
	currentY := y + int(size)
	for _, line := range wrapText(drawer, text, maxWidth) {
		drawer.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(currentY)}
		drawer.DrawString(line)
		currentY += lineHeight
	}
	return currentY - lineHeight + int(size*0.6)
}

func wrapText(drawer *font.Drawer, text string, maxWidth int) []string {
	lines := []string{}
	current := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if drawer.MeasureString(candidate).Ceil() > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ShareCaption is the text posted alongside the card
func ShareCaption(recipeName, amount string) string {
	return fmt.Sprintf("I'm donating the cost of %s (%s) to fight hunger. Join me!", recipeName, amount)
}
