// Package render turns decoded values and extracted metadata into the
// output formats offered by the command line tool.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"torrent-inspect/internal/bencode"
)

// Format names an output encoding.
type Format string

const (
	Text     Format = "text"
	JSON     Format = "json"
	YAML     Format = "yaml"
	CBOR     Format = "cbor"
	CBORDiag Format = "cbor-diag"
)

func Formats() []Format {
	return []Format{Text, JSON, YAML, CBOR, CBORDiag}
}

func ParseFormat(name string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("render: unknown format %q", name)
}

// Value writes v in format f. Text and JSON both print compact JSON with
// dictionary keys in decoded order.
func Value(w io.Writer, v bencode.Bvalue, f Format) error {
	switch f {
	case Text, JSON:
		out, err := appendJSON(nil, v)
		if err != nil {
			return err
		}
		out = append(out, '\n')
		_, err = w.Write(out)
		return err
	case YAML:
		return writeYAML(w, yamlNode(v))
	case CBOR:
		return writeCBOR(w, cborValue(v))
	case CBORDiag:
		return writeCBORDiag(w, cborValue(v))
	default:
		return fmt.Errorf("render: unknown format %q", string(f))
	}
}

func appendJSON(dst []byte, v bencode.Bvalue) ([]byte, error) {
	switch x := v.(type) {
	case bencode.BInt:
		return strconv.AppendInt(dst, int64(x), 10), nil
	case bencode.BString:
		return appendQuoted(dst, string(x))
	case bencode.BList:
		dst = append(dst, '[')
		for i, elem := range x {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			if dst, err = appendJSON(dst, elem); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case bencode.BDict:
		dst = append(dst, '{')
		for i, e := range x.Entries() {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			if dst, err = appendQuoted(dst, e.Key); err != nil {
				return nil, err
			}
			dst = append(dst, ':')
			if dst, err = appendJSON(dst, e.Value); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	}
	return nil, fmt.Errorf("render: cannot render %T", v)
}

func appendQuoted(dst []byte, s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return append(dst, bytes.TrimSuffix(buf.Bytes(), []byte("\n"))...), nil
}
