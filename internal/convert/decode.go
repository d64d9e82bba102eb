package convert

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names reported in Result.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// decodeInput returns raw as UTF-8 text. Valid UTF-8 (with or without BOM)
// is the primary encoding; anything else is retried once as Windows-1252.
// Replacement characters in the fallback output make the input undecodable.
func decodeInput(raw []byte) (string, string, error) {
	if utf8.Valid(raw) {
		text, err := decodeWith(unicode.UTF8BOM, raw)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		return text, EncodingUTF8, nil
	}

	text, err := decodeWith(charmap.Windows1252, raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if i := strings.IndexRune(text, utf8.RuneError); i >= 0 {
		return "", "", fmt.Errorf("%w: no valid %s mapping near offset %d", ErrUndecodable, EncodingWindows1252, i)
	}
	return text, EncodingWindows1252, nil
}

func decodeWith(enc encoding.Encoding, raw []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", errors.New("decoder produced invalid UTF-8")
	}
	return string(out), nil
}
