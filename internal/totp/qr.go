package totp

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrImageSize is the pixel width/height of rendered QR codes.
const qrImageSize = 256

// QRCodeDataURL renders the given provisioning URI as a PNG QR code and
// returns it as a data: URL suitable for direct embedding in an <img> tag.
//
// Rendering failure is expected to be treated as non-fatal by callers:
// registration still succeeds with the base32 secret alone.
func QRCodeDataURL(provisioningURI string) (string, error) {
	png, err := qrcode.Encode(provisioningURI, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("error rendering qr code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
