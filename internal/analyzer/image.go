package analyzer

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sozercan/rizziq/internal/apperrors"
	"github.com/sozercan/rizziq/internal/llm"
)

// MissingImageMessage is returned for a request without a usable image field.
const MissingImageMessage = "Missing or invalid 'image' field (base64 string) in request body."

// defaultMIME tags payloads whose bytes do not look like a known image format.
const defaultMIME = "image/png"

// ImagePayload is a decoded screenshot ready to send upstream. It lives only
// for the request that carried it.
type ImagePayload = llm.Image

// ImageField extracts the image string from a raw request field. A missing,
// null, non-string or blank value is a validation error.
func ImageField(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", apperrors.New(apperrors.KindValidation, "analyzer.ImageField", MissingImageMessage)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", apperrors.New(apperrors.KindValidation, "analyzer.ImageField", MissingImageMessage)
	}
	if strings.TrimSpace(s) == "" {
		return "", apperrors.New(apperrors.KindValidation, "analyzer.ImageField", MissingImageMessage)
	}
	return s, nil
}

// NormalizeImage accepts either a full data URI or a bare base64 string.
// A data URI is forwarded as-is; a bare payload is tagged with the MIME type
// sniffed from its bytes.
func NormalizeImage(s string) (ImagePayload, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "data:") {
		idx := strings.IndexByte(s, ',')
		if idx < 0 {
			return ImagePayload{}, invalidImage("data URI has no payload")
		}
		meta := s[len("data:"):idx]
		hint := meta
		if semi := strings.IndexByte(meta, ';'); semi >= 0 {
			hint = meta[:semi]
		}

		data, err := decodeBase64(s[idx+1:])
		if err != nil {
			return ImagePayload{}, invalidImage("image payload is not valid base64")
		}
		if len(data) == 0 {
			return ImagePayload{}, invalidImage("image payload is empty")
		}
		if hint == "" {
			hint = detectMIME(data)
		}
		return ImagePayload{MIMEType: hint, Data: data, DataURI: s}, nil
	}

	data, err := decodeBase64(s)
	if err != nil {
		return ImagePayload{}, invalidImage("image payload is not valid base64")
	}
	if len(data) == 0 {
		return ImagePayload{}, invalidImage("image payload is empty")
	}

	mime := detectMIME(data)
	return ImagePayload{
		MIMEType: mime,
		Data:     data,
		DataURI:  "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

func decodeBase64(s string) ([]byte, error) {
	var lastErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func detectMIME(data []byte) string {
	mt := mimetype.Detect(data).String()
	if strings.HasPrefix(mt, "image/") {
		return mt
	}
	return defaultMIME
}

func invalidImage(details string) error {
	return apperrors.New(apperrors.KindValidation, "analyzer.NormalizeImage", MissingImageMessage).
		WithDetails(details)
}
