package utils

import (
	"encoding/hex"
	"strings"
)

// PlaceholderImage is served when a post has no usable image.
const PlaceholderImage = "/placeholder.svg?height=400&width=600"

// ResolveImageRef turns the raw media_upload column into an image URL.
//
// The admin editor historically hex-encoded the URL text before writing it into the
// bytea column, and some rows were encoded twice, so up to two hex layers are peeled.
func ResolveImageRef(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return PlaceholderImage
	}

	for i := 0; i < 2; i++ {
		decoded, ok := decodeHexLayer(value)
		if !ok {
			break
		}
		value = decoded
	}

	if !IsImageURL(value) {
		return PlaceholderImage
	}
	return value
}

// NormalizeImageInput accepts a URL, hex or \x-prefixed hex from the admin form and
// returns the plain URL to store. ok=false when the input never resolves to a URL.
func NormalizeImageInput(input string) (string, bool) {
	value := strings.TrimSpace(input)
	if value == "" {
		return "", true
	}
	resolved := ResolveImageRef(value)
	if resolved == PlaceholderImage && value != PlaceholderImage {
		return "", false
	}
	return resolved, true
}

// EncodeHexRef renders stored bytes the way the bytea column prints: \x + lowercase hex.
func EncodeHexRef(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return `\x` + hex.EncodeToString(b)
}

// ImageRefVariants lists the column values that resolve to url: the plain bytes plus
// the one and two layer hex forms, with and without the \x prefix.
func ImageRefVariants(url string) [][]byte {
	once := hex.EncodeToString([]byte(url))
	twice := hex.EncodeToString([]byte(once))
	return [][]byte{
		[]byte(url),
		[]byte(once),
		[]byte(`\x` + once),
		[]byte(twice),
		[]byte(`\x` + twice),
	}
}

func IsImageURL(s string) bool {
	return strings.HasPrefix(s, "http") || strings.HasPrefix(s, "/")
}

func decodeHexLayer(s string) (string, bool) {
	s = strings.TrimPrefix(s, `\x`)
	if s == "" || len(s)%2 != 0 || !isHex(s) {
		return "", false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
