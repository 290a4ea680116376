package bencode

import (
	"bytes"
	"errors"
	"sort"
)

// Kind identifies which of the four bencode shapes a Bvalue holds.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindString
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindString:
		return "byte string"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	default:
		return "unknown"
	}
}

// Bvalue is a decoded bencode value. The set of implementations is closed:
// BInt, BString, BList and BDict.
type Bvalue interface {
	Kind() Kind
	bvalue()
}

type BInt int64

// BString holds raw bytes. Strings produced by the Decoder alias the
// decoded buffer.
type BString []byte

type BList []Bvalue

func (BInt) Kind() Kind    { return KindInt }
func (BString) Kind() Kind { return KindString }
func (BList) Kind() Kind   { return KindList }
func (BDict) Kind() Kind   { return KindDict }

func (BInt) bvalue()    {}
func (BString) bvalue() {}
func (BList) bvalue()   {}
func (BDict) bvalue()   {}

func (s BString) String() string { return string(s) }

// ErrDuplicateKey is returned by NewDict when two entries share a key.
var ErrDuplicateKey = errors.New("bencode: duplicate dictionary key")

// BEntry is one key/value pair of a dictionary.
type BEntry struct {
	Key   string
	Value Bvalue
}

// BDict is a dictionary with unique byte-string keys. It remembers the
// order its entries were added in; encoding always uses sorted order.
type BDict struct {
	entries []BEntry
	index   map[string]int
}

// NewDict builds a dictionary from entries, in the given order.
func NewDict(entries ...BEntry) (BDict, error) {
	var d BDict
	for _, e := range entries {
		if !d.add(e.Key, e.Value) {
			return BDict{}, ErrDuplicateKey
		}
	}
	return d, nil
}

func (d *BDict) add(key string, val Bvalue) bool {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if _, dup := d.index[key]; dup {
		return false
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, BEntry{Key: key, Value: val})
	return true
}

func (d BDict) Len() int {
	return len(d.entries)
}

func (d BDict) Get(key string) (Bvalue, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i].Value, true
}

// Keys returns the keys in insertion order.
func (d BDict) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (d BDict) Entries() []BEntry {
	out := make([]BEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Sorted returns the entries ordered by ascending key bytes.
func (d BDict) Sorted() []BEntry {
	out := d.Entries()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// Equal reports whether a and b hold the same logical value. Lists compare
// element by element; dictionaries compare by key set and values, ignoring
// entry order.
func Equal(a, b Bvalue) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case BInt:
		return x == b.(BInt)
	case BString:
		return bytes.Equal(x, b.(BString))
	case BList:
		y := b.(BList)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case BDict:
		y := b.(BDict)
		if x.Len() != y.Len() {
			return false
		}
		for _, e := range x.entries {
			other, ok := y.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}
