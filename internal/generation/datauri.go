package generation

import (
	"encoding/base64"
	"strings"

	"philcali.me/nutrition/internal/exceptions"
)

// ParseDataURI splits "data:<mime>;base64,<payload>" into its parts. The
// payload is checked for valid base64 but returned still encoded.
func ParseDataURI(uri string) (InlineImage, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return InlineImage{}, exceptions.InvalidInput("image must be a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return InlineImage{}, exceptions.InvalidInput("image data URI has no payload")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || mimeType == "" {
		return InlineImage{}, exceptions.InvalidInput("image data URI must declare a MIME type and base64 encoding")
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return InlineImage{}, exceptions.InvalidInput("unsupported image type " + mimeType)
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil || payload == "" {
		return InlineImage{}, exceptions.InvalidInput("image payload is not valid base64")
	}
	return InlineImage{MimeType: mimeType, Data: payload}, nil
}

func (i InlineImage) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(i.Data)
}
