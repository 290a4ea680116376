package bencode

import (
	"errors"
	"strconv"
)

// DefaultMaxDepth bounds list and dictionary nesting when Decoder.MaxDepth
// is zero.
const DefaultMaxDepth = 512

// ErrNotDict is returned by DictSpan when the value at the cursor is not a
// dictionary.
var ErrNotDict = errors.New("bencode: value is not a dictionary")

// Decoder reads bencode values from an in-memory buffer, starting at a
// cursor that advances past each decoded value.
type Decoder struct {
	data  []byte
	pos   int
	depth int

	// MaxDepth is the deepest list/dictionary nesting accepted.
	MaxDepth int
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

func (d *Decoder) Pos() int {
	return d.pos
}

// Decode reads exactly one value at the cursor. On error the cursor is left
// where it was.
func (d *Decoder) Decode() (Bvalue, error) {
	start := d.pos
	v, err := d.value()
	if err != nil {
		d.pos, d.depth = start, 0
		return nil, err
	}
	return v, nil
}

// DictSpan decodes the dictionary at the cursor and also returns the raw
// encoded bytes of the value stored under key, or nil when the key is absent.
func (d *Decoder) DictSpan(key string) (BDict, []byte, error) {
	start := d.pos
	if start >= len(d.data) || d.data[start] != 'd' {
		return BDict{}, nil, ErrNotDict
	}

	var raw []byte
	dict, err := d.decodeDict(func(k string, span []byte) {
		if k == key {
			raw = span
		}
	})
	if err != nil {
		d.pos, d.depth = start, 0
		return BDict{}, nil, err
	}
	return dict, raw, nil
}

// DecodeValue decodes one value starting at offset and reports how many
// bytes it occupied. Bytes after the value are not examined.
func DecodeValue(buf []byte, offset int) (Bvalue, int, error) {
	if offset < 0 || offset > len(buf) {
		return nil, 0, &DecodeError{Kind: UnknownValueTag, Offset: offset}
	}
	d := &Decoder{data: buf, pos: offset}
	v, err := d.Decode()
	if err != nil {
		return nil, 0, err
	}
	return v, d.pos - offset, nil
}

// Decode decodes buf, which must hold exactly one value.
func Decode(buf []byte) (Bvalue, error) {
	return DecodeDepth(buf, 0)
}

// DecodeDepth is Decode with an explicit nesting limit; zero selects
// DefaultMaxDepth.
func DecodeDepth(buf []byte, maxDepth int) (Bvalue, error) {
	d := NewDecoder(buf)
	d.MaxDepth = maxDepth

	v, err := d.Decode()
	if err != nil {
		return nil, err
	}
	if d.pos != len(buf) {
		return nil, &DecodeError{Kind: TrailingBytesAfterTopLevelValue, Offset: d.pos}
	}
	return v, nil
}

func (d *Decoder) fail(kind ErrorKind, offset int) error {
	return &DecodeError{Kind: kind, Offset: offset}
}

func (d *Decoder) value() (Bvalue, error) {
	if d.pos >= len(d.data) {
		return nil, d.fail(UnknownValueTag, d.pos)
	}

	b := d.data[d.pos]

	switch {
	case b == 'i':
		return d.decodeInt()
	case b == 'l':
		return d.decodeList()
	case b == 'd':
		return d.decodeDict(nil)
	case isDigit(b):
		return d.decodeString()
	default:
		return nil, d.fail(UnknownValueTag, d.pos)
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (d *Decoder) enter(at int) error {
	limit := d.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if d.depth >= limit {
		return d.fail(NestingTooDeep, at)
	}
	d.depth++
	return nil
}

func (d *Decoder) decodeInt() (BInt, error) {
	start := d.pos
	d.pos++

	numStart := d.pos
	negative := false
	if d.pos < len(d.data) && d.data[d.pos] == '-' {
		negative = true
		d.pos++
	}

	digitStart := d.pos
	for d.pos < len(d.data) && isDigit(d.data[d.pos]) {
		d.pos++
	}
	if d.pos >= len(d.data) {
		return 0, d.fail(MissingIntegerTerminator, start)
	}
	if d.data[d.pos] != 'e' {
		return 0, d.fail(InvalidIntegerFormat, start)
	}

	digits := d.data[digitStart:d.pos]
	switch {
	case len(digits) == 0:
		return 0, d.fail(InvalidIntegerFormat, start)
	case digits[0] == '0' && len(digits) > 1:
		return 0, d.fail(LeadingZeroInteger, start)
	case negative && digits[0] == '0':
		return 0, d.fail(NegativeZeroInteger, start)
	}

	n, err := strconv.ParseInt(string(d.data[numStart:d.pos]), 10, 64)
	if err != nil {
		return 0, d.fail(InvalidIntegerFormat, start)
	}

	d.pos++
	return BInt(n), nil
}

func (d *Decoder) decodeString() (BString, error) {
	start := d.pos

	for d.pos < len(d.data) && isDigit(d.data[d.pos]) {
		d.pos++
	}
	if d.pos >= len(d.data) {
		return nil, d.fail(TruncatedLength, start)
	}
	if d.data[d.pos] != ':' || d.pos == start {
		return nil, d.fail(InvalidLengthFormat, start)
	}

	lengthStr := d.data[start:d.pos]
	if lengthStr[0] == '0' && len(lengthStr) > 1 {
		return nil, d.fail(InvalidLengthFormat, start)
	}
	length, err := strconv.Atoi(string(lengthStr))
	if err != nil {
		return nil, d.fail(InvalidLengthFormat, start)
	}

	d.pos++

	if length > len(d.data)-d.pos {
		return nil, d.fail(TruncatedStringBody, start)
	}

	end := d.pos + length
	str := d.data[d.pos:end:end]
	d.pos = end

	return BString(str), nil
}

func (d *Decoder) decodeList() (BList, error) {
	start := d.pos
	if err := d.enter(start); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()
	d.pos++

	list := BList{}

	for {
		if d.pos >= len(d.data) {
			return nil, d.fail(UnterminatedList, start)
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return list, nil
		}

		val, err := d.value()
		if err != nil {
			return nil, err
		}
		list = append(list, val)
	}
}

func (d *Decoder) decodeDict(onEntry func(key string, raw []byte)) (BDict, error) {
	start := d.pos
	if err := d.enter(start); err != nil {
		return BDict{}, err
	}
	defer func() { d.depth-- }()
	d.pos++

	dict := BDict{index: make(map[string]int)}

	for {
		if d.pos >= len(d.data) {
			return BDict{}, d.fail(UnterminatedDictionary, start)
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return dict, nil
		}

		keyStart := d.pos
		if !isDigit(d.data[keyStart]) {
			return BDict{}, d.fail(NonStringDictionaryKey, keyStart)
		}
		keyVal, err := d.decodeString()
		if err != nil {
			return BDict{}, err
		}
		key := string(keyVal)
		if _, dup := dict.index[key]; dup {
			return BDict{}, d.fail(DuplicateDictionaryKey, keyStart)
		}

		if d.pos >= len(d.data) {
			return BDict{}, d.fail(UnterminatedDictionary, start)
		}
		valStart := d.pos
		val, err := d.value()
		if err != nil {
			return BDict{}, err
		}

		dict.add(key, val)
		if onEntry != nil {
			onEntry(key, d.data[valStart:d.pos:d.pos])
		}
	}
}
