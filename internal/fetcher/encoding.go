package fetcher

import (
	"bytes"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names reported by DecodeText.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF16   = "utf-16"
	EncodingWin1252 = "windows-1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw file bytes to UTF-8 text and reports the source
// encoding. A non-empty name forces that encoding (any WHATWG label such as
// "latin1" or "utf-8"). Otherwise UTF-16 is detected by its BOM, valid UTF-8
// is taken as is with its BOM stripped, and anything else is read as
// Windows-1252, the superset of Latin-1 the source files were exported in.
func DecodeText(data []byte, name string) (string, string, error) {
	if name != "" {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return "", "", eris.Wrapf(err, "fetcher: unknown encoding %q", name)
		}
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", "", eris.Wrapf(err, "fetcher: decode %s", name)
		}
		canonical, _ := htmlindex.Name(enc)
		return string(bytes.TrimPrefix(out, utf8BOM)), canonical, nil
	}

	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return "", "", eris.Wrap(err, "fetcher: decode utf-16")
		}
		return string(out), EncodingUTF16, nil
	}

	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), EncodingUTF8, nil
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", eris.Wrap(err, "fetcher: decode windows-1252")
	}
	return string(out), EncodingWin1252, nil
}
