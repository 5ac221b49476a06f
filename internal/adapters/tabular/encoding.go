package tabular

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names reported by Detect
const (
	EncUTF8    = "utf-8"
	EncUTF8BOM = "utf-8-bom"
	EncUTF16LE = "utf-16le"
	EncUTF16BE = "utf-16be"
	EncLatin1  = "latin-1"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect sniffs the byte order mark, strips it and returns UTF-8 bytes
// valid UTF-8 passes through; anything else is read as ISO 8859-1
func Detect(data []byte) ([]byte, string, error) {
	switch {
	case len(data) == 0:
		return data, EncUTF8, nil
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], EncUTF8BOM, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		return out, EncUTF16LE, err
	case bytes.HasPrefix(data, bomUTF16BE):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		return out, EncUTF16BE, err
	case utf8.Valid(data):
		return data, EncUTF8, nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return out, EncLatin1, err
}
