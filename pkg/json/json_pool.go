// Package json provides pooled JSON encoding built on goccy/go-json and the
// record codecs shared by pipes and the CLI
package json

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/ajitpratap0/pipes/pkg/pipe"
	gojson "github.com/goccy/go-json"
)

// Output formats for WriteRecords
const (
	FormatArray = "array"
	FormatLines = "lines"
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1024*1024 { // Don't pool very large buffers
		return
	}
	bufferPool.Put(buf)
}

// Marshal encodes v without HTML escaping
func Marshal(v interface{}) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	// Encode appends a newline
	out := bytes.TrimRight(buf.Bytes(), "\n")
	result := make([]byte, len(out))
	copy(result, out)
	return result, nil
}

// Unmarshal is a drop-in replacement for encoding/json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// DecodeRecords decodes a body holding either a JSON array of objects or a
// single object. An empty body or null yields no records.
func DecodeRecords(body []byte) ([]pipe.Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []pipe.Record{}, nil
	}

	if trimmed[0] == '{' {
		var rec pipe.Record
		if err := gojson.Unmarshal(trimmed, &rec); err != nil {
			return nil, err
		}
		return []pipe.Record{rec}, nil
	}

	var recs []pipe.Record
	if err := gojson.Unmarshal(trimmed, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []pipe.Record{}
	}
	return recs, nil
}

// WriteRecords writes records as an indented JSON array or as
// newline-delimited objects
func WriteRecords(w io.Writer, records []pipe.Record, format string) error {
	switch format {
	case FormatLines:
		enc := gojson.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	case FormatArray, "":
		if records == nil {
			records = []pipe.Record{}
		}
		enc := gojson.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
