package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestParseSize(t *testing.T) {
	cases := map[string]int{"": DefaultSize, "abc": DefaultSize, "-4": DefaultSize, "4": MinSize, "64": 64, "4096": MaxSize}
	for in, want := range cases {
		if got := ParseSize(in); got != want {
			t.Fatalf("ParseSize(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFitCover(t *testing.T) {
	if w, h := FitCover(200, 100, 50); w != 100 || h != 50 {
		t.Fatalf("landscape: got %dx%d", w, h)
	}
	if w, h := FitCover(100, 300, 50); w != 50 || h != 150 {
		t.Fatalf("portrait: got %dx%d", w, h)
	}
	if w, h := FitCover(0, 10, 32); w != 32 || h != 32 {
		t.Fatalf("invalid: got %dx%d", w, h)
	}
}

func TestSquareProducesExactSize(t *testing.T) {
	src, err := DecodeLimited(bytes.NewReader(pngBytes(t, 120, 80)), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := Square(src, 32)
	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 32 {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
}

func TestDecodeLimitedRejectsLargeInput(t *testing.T) {
	raw := pngBytes(t, 64, 64)
	if _, err := DecodeLimited(bytes.NewReader(raw), int64(len(raw)/4)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := DecodeLimited(bytes.NewReader(raw), int64(len(raw))); err != nil {
		t.Fatalf("expected decode within limit, got %v", err)
	}
}

func TestFetchImage(t *testing.T) {
	raw := pngBytes(t, 20, 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	img, err := FetchImage(context.Background(), srv.Client(), srv.URL+"/ok.png", 1<<20)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Fatalf("unexpected width %d", img.Bounds().Dx())
	}
	if _, err := FetchImage(context.Background(), srv.Client(), srv.URL+"/missing", 1<<20); !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestQRCodePNG(t *testing.T) {
	if got := MailtoURI("george.bluth@reqres.in"); got != "mailto:george.bluth@reqres.in" {
		t.Fatalf("unexpected mailto %q", got)
	}
	raw, err := QRCodePNG(MailtoURI("george.bluth@reqres.in"), 128)
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode qr: %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Fatalf("expected 128px, got %d", img.Bounds().Dx())
	}
}
