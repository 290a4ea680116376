package bencode

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// ErrUnsupportedType is returned by FromNative for Go values that have no
// bencode form, such as floats, booleans and nil.
var ErrUnsupportedType = errors.New("bencode: unsupported type")

// ToNative converts v to plain Go values: int64, string, []any and
// map[string]any.
func ToNative(v Bvalue) any {
	switch x := v.(type) {
	case BInt:
		return int64(x)
	case BString:
		return string(x)
	case BList:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = ToNative(elem)
		}
		return out
	case BDict:
		out := make(map[string]any, x.Len())
		for _, e := range x.entries {
			out[e.Key] = ToNative(e.Value)
		}
		return out
	}
	return nil
}

// FromNative converts decoded JSON or YAML data into a Bvalue. Map keys are
// added in sorted order so the result does not depend on map iteration.
func FromNative(x any) (Bvalue, error) {
	switch v := x.(type) {
	case Bvalue:
		return v, nil
	case string:
		return BString(v), nil
	case []byte:
		return BString(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %s is not an integer", ErrUnsupportedType, v)
		}
		return BInt(n), nil
	case []any:
		list := make(BList, 0, len(v))
		for i, elem := range v {
			b, err := FromNative(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			list = append(list, b)
		}
		return list, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var dict BDict
		for _, k := range keys {
			b, err := FromNative(v[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			dict.add(k, b)
		}
		return dict, nil
	case nil:
		return nil, fmt.Errorf("%w: null", ErrUnsupportedType)
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return BInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedType, u)
		}
		return BInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return nil, fmt.Errorf("%w: number %v is not an integer", ErrUnsupportedType, f)
		}
		return BInt(int64(f)), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, x)
}
