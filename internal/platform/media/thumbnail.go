package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultSize = 128
	MinSize     = 16
	MaxSize     = 512
)

var (
	// ErrTooLarge indicates the source image exceeded the byte cap.
	ErrTooLarge = errors.New("source image exceeds size limit")
	// ErrFetch indicates the source image could not be retrieved.
	ErrFetch = errors.New("source image unavailable")
)

// ParseSize reads a thumbnail edge length, clamped to [MinSize, MaxSize].
func ParseSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultSize
	}
	if n < MinSize {
		return MinSize
	}
	if n > MaxSize {
		return MaxSize
	}
	return n
}

// FetchImage downloads and decodes the image at url, reading at most maxBytes.
func FetchImage(ctx context.Context, client *http.Client, url string, maxBytes int64) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}
	return DecodeLimited(resp.Body, maxBytes)
}

// DecodeLimited decodes an image, failing with ErrTooLarge past maxBytes.
func DecodeLimited(src io.Reader, maxBytes int64) (image.Image, error) {
	if maxBytes <= 0 {
		img, _, err := image.Decode(src)
		return img, err
	}
	lr := &io.LimitedReader{R: src, N: maxBytes + 1}
	img, _, err := image.Decode(lr)
	if lr.N <= 0 {
		return nil, ErrTooLarge
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Square scales src to cover a size x size box and center-crops the overflow.
func Square(src image.Image, size int) *image.RGBA {
	b := src.Bounds()
	w, h := FitCover(b.Dx(), b.Dy(), size)
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, b, draw.Over, nil)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	offset := image.Pt((w-size)/2, (h-size)/2)
	draw.Draw(dst, dst.Bounds(), scaled, offset, draw.Src)
	return dst
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// FitCover returns dimensions that cover a minDim square while keeping the aspect ratio.
func FitCover(width, height, minDim int) (int, int) {
	if width <= 0 || height <= 0 || minDim <= 0 {
		return minDim, minDim
	}
	if width <= height {
		newH := int(float64(height) * float64(minDim) / float64(width))
		if newH < minDim {
			newH = minDim
		}
		return minDim, newH
	}
	newW := int(float64(width) * float64(minDim) / float64(height))
	if newW < minDim {
		newW = minDim
	}
	return newW, minDim
}
