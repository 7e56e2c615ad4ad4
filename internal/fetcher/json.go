package fetcher

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONObject decodes exactly one JSON value of type T from r. Trailing
// content after the value is rejected, so a truncated or concatenated export
// fails loudly instead of loading half a document.
func DecodeJSONObject[T any](r io.Reader) (*T, error) {
	dec := json.NewDecoder(r)
	var obj T
	if err := dec.Decode(&obj); err != nil {
		if eris.Is(err, io.EOF) {
			return nil, eris.New("fetcher: decode json: empty document")
		}
		return nil, eris.Wrap(err, "fetcher: decode json")
	}
	if dec.More() {
		return nil, eris.New("fetcher: decode json: trailing data after document")
	}
	return &obj, nil
}
