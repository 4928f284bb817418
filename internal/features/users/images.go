package users

import (
	"bytes"
	"errors"
	"net/http"

	"userdir/internal/platform/media"
)

// QRCode serves a PNG QR code encoding a mailto: link for a user already in memory.
func (h Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	user, ok := h.deps.LookupUser(id)
	if !ok || user.Email == "" {
		http.NotFound(w, r)
		return
	}
	png, err := media.QRCodePNG(media.MailtoURI(user.Email), media.QRSize)
	if err != nil {
		h.deps.Logger().Errorw("qr encode", "id", id, "error", err)
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(png)
}

// Avatar proxies a user's avatar as a square PNG thumbnail.
func (h Handler) Avatar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	user, ok := h.deps.LookupUser(id)
	if !ok || user.Avatar == "" {
		http.NotFound(w, r)
		return
	}
	size := media.ParseSize(r.URL.Query().Get("size"))
	img, err := media.FetchImage(r.Context(), h.images, user.Avatar, h.deps.Config().AvatarMaxBytes)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, media.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.deps.Logger().Warnw("avatar fetch failed", "id", id, "error", err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	var buf bytes.Buffer
	if err := media.WritePNG(&buf, media.Square(img, size)); err != nil {
		h.deps.Logger().Errorw("avatar encode", "id", id, "error", err)
		http.Error(w, "Avatar encoding failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(buf.Bytes())
}
