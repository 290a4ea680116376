package bencode

import (
	"fmt"
	"io"
	"strconv"
)

// Encode returns the canonical encoding of v: dictionary keys are written
// in ascending byte order whatever order they were added in.
func Encode(v Bvalue) []byte {
	return AppendValue(nil, v)
}

// AppendValue appends the canonical encoding of v to dst.
func AppendValue(dst []byte, v Bvalue) []byte {
	switch x := v.(type) {
	case BInt:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, int64(x), 10)
		return append(dst, 'e')
	case BString:
		return appendString(dst, string(x))
	case BList:
		dst = append(dst, 'l')
		for _, elem := range x {
			dst = AppendValue(dst, elem)
		}
		return append(dst, 'e')
	case BDict:
		dst = append(dst, 'd')
		for _, e := range x.Sorted() {
			dst = appendString(dst, e.Key)
			dst = AppendValue(dst, e.Value)
		}
		return append(dst, 'e')
	default:
		panic(fmt.Sprintf("bencode: cannot encode %T", v))
	}
}

func appendString(dst []byte, s string) []byte {
	dst = strconv.AppendInt(dst, int64(len(s)), 10)
	dst = append(dst, ':')
	return append(dst, s...)
}

// Encoder writes canonical encodings to a stream.
type Encoder struct {
	w   io.Writer
	buf []byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(v Bvalue) error {
	e.buf = AppendValue(e.buf[:0], v)
	if _, err := e.w.Write(e.buf); err != nil {
		return fmt.Errorf("bencode: write: %w", err)
	}
	return nil
}
