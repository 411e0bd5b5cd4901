package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

type fakeFetcher struct {
	data []byte
	err  error
	urls []string
}

func (f *fakeFetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return f.data, f.err
}

func solidPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeCard(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != ShareImageWidth || b.Dy() != ShareImageHeight {
		t.Fatalf("card is %dx%d", b.Dx(), b.Dy())
	}
	return img
}

var penneCard = ShareCard{
	RecipeName:   "Spicy Arrabiata Penne",
	Category:     "Pasta",
	Area:         "Italian",
	Amount:       "£7",
	ThumbnailURL: "https://example.test/penne.jpg",
}

func TestShareImageRenderer_WithoutThumbnail(t *testing.T) {
	data, err := NewShareImageRenderer(nil).Render(context.Background(), penneCard)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}
	decodeCard(t, data)
}

func TestShareImageRenderer_DrawsThumbnail(t *testing.T) {
	fetcher := &fakeFetcher{data: solidPNG(t, color.RGBA{220, 20, 20, 255})}
	data, err := NewShareImageRenderer(fetcher).Render(context.Background(), penneCard)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}

	img := decodeCard(t, data)
	r, g, _, _ := img.At(ShareImageWidth-sharePadding-shareThumbWidth/2, ShareImageHeight/2).RGBA()
	if r>>8 < 180 || g>>8 > 60 {
		t.Errorf("thumbnail panel pixel = r%d g%d, want the red thumbnail", r>>8, g>>8)
	}
	if len(fetcher.urls) != 1 || fetcher.urls[0] != penneCard.ThumbnailURL {
		t.Errorf("fetched %v", fetcher.urls)
	}
}

func TestShareImageRenderer_ThumbnailFailuresAreIgnored(t *testing.T) {
	for _, f := range []*fakeFetcher{
		{err: errors.New("404")},
		{data: []byte("not an image")},
	} {
		data, err := NewShareImageRenderer(f).Render(context.Background(), penneCard)
		if err != nil {
			t.Fatalf("Render error = %v", err)
		}
		decodeCard(t, data)
	}
}

func TestShareCaption(t *testing.T) {
	want := "I'm donating the cost of Beef Wellington (€25) to fight hunger. Join me!"
	if got := ShareCaption("Beef Wellington", "€25"); got != want {
		t.Errorf("ShareCaption = %q", got)
	}
}
