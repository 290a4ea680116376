package render

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"

	"torrent-inspect/internal/bencode"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2), the CBOR
// counterpart of sorted bencode dictionaries.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("render: CBOR encoder initialization failed: " + err.Error())
	}
}

// cborValue maps UTF-8 byte strings to CBOR text strings and everything
// else to CBOR byte strings.
func cborValue(v bencode.Bvalue) any {
	switch x := v.(type) {
	case bencode.BInt:
		return int64(x)
	case bencode.BString:
		if utf8.Valid(x) {
			return string(x)
		}
		return []byte(x)
	case bencode.BList:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = cborValue(elem)
		}
		return out
	case bencode.BDict:
		out := make(map[string]any, x.Len())
		for _, e := range x.Entries() {
			out[e.Key] = cborValue(e.Value)
		}
		return out
	}
	return nil
}

func writeCBOR(w io.Writer, v any) error {
	data, err := encMode.Marshal(v)
	if err != nil {
		return fmt.Errorf("render: cbor: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func writeCBORDiag(w io.Writer, v any) error {
	data, err := encMode.Marshal(v)
	if err != nil {
		return fmt.Errorf("render: cbor: %w", err)
	}
	diag, err := cbor.Diagnose(data)
	if err != nil {
		return fmt.Errorf("render: cbor diagnostic: %w", err)
	}
	_, err = fmt.Fprintln(w, diag)
	return err
}
