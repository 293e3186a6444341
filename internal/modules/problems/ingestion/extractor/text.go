package extractor

import (
	"bytes"
	"context"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PlainText handles txt and markdown uploads: the bytes are the text.
type PlainText struct{}

func (PlainText) Extract(_ context.Context, data []byte) (string, error) {
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}
