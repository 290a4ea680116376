package bencode

import "fmt"

// ErrorKind classifies a decode failure.
type ErrorKind int

const (
	TruncatedLength ErrorKind = iota + 1
	InvalidLengthFormat
	TruncatedStringBody
	MissingIntegerTerminator
	InvalidIntegerFormat
	LeadingZeroInteger
	NegativeZeroInteger
	UnterminatedList
	UnterminatedDictionary
	NonStringDictionaryKey
	DuplicateDictionaryKey
	UnknownValueTag
	TrailingBytesAfterTopLevelValue
	NestingTooDeep
)

var kindNames = map[ErrorKind]string{
	TruncatedLength:                 "truncated string length",
	InvalidLengthFormat:             "invalid string length",
	TruncatedStringBody:             "string exceeds data length",
	MissingIntegerTerminator:        "unterminated integer",
	InvalidIntegerFormat:            "invalid integer",
	LeadingZeroInteger:              "integer has leading zero",
	NegativeZeroInteger:             "negative zero integer",
	UnterminatedList:                "unterminated list",
	UnterminatedDictionary:          "unterminated dictionary",
	NonStringDictionaryKey:          "dictionary key is not a string",
	DuplicateDictionaryKey:          "duplicate dictionary key",
	UnknownValueTag:                 "invalid bencode byte",
	TrailingBytesAfterTopLevelValue: "trailing data after value",
	NestingTooDeep:                  "nesting too deep",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// DecodeError reports the first malformed byte sequence found while decoding.
// Offset is an index into the buffer handed to the decoder.
type DecodeError struct {
	Kind   ErrorKind
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bencode: %s at offset %d", e.Kind, e.Offset)
}

// Is matches another *DecodeError of the same kind, so callers can write
// errors.Is(err, &DecodeError{Kind: NegativeZeroInteger}).
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Kind == e.Kind
}
