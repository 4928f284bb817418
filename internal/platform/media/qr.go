package media

import (
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the edge length of generated contact codes.
const QRSize = 256

// MailtoURI builds a mailto: link for email.
func MailtoURI(email string) string {
	u := url.URL{Scheme: "mailto", Opaque: email}
	return u.String()
}

// QRCodePNG renders content as a PNG QR code.
func QRCodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = QRSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
