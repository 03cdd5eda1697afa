package store

import (
	"bytes"
	"io"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"plantao/internal/models"
)

// TimestampLayout is fixed width so stamps sort chronologically as text.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

var (
	errInvalidUTF8  = errors.New("record file is not valid UTF-8")
	errTrailingData = errors.New("unexpected data after JSON value")
)

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// EncodeRecord renders the canonical on-disk form: 2-space indent,
// trailing newline, HTML characters left as is.
func EncodeRecord(rec models.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeValue parses exactly one JSON value, keeping numbers as json.Number
// so they are written back unchanged.
func DecodeValue(data []byte) (any, error) {
	if !utf8.Valid(data) {
		return nil, errInvalidUTF8
	}
	// The streaming decoder accepts truncated literals such as "tru";
	// a full unmarshal does not.
	if err := json.Unmarshal(data, new(any)); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errTrailingData
	}
	return v, nil
}
