package metainfo

import (
	"bytes"
	"errors"
	"fmt"

	"torrent-inspect/internal/bencode"
	"torrent-inspect/internal/digest"
)

// PieceHashSize is the size of one entry in the info "pieces" table.
const PieceHashSize = 20

var ErrNotDictionary = errors.New("metainfo: torrent file is not a dictionary")

// Problem says what is wrong with a metadata field.
type Problem int

const (
	Missing Problem = iota + 1
	WrongType
	Invalid
)

func (p Problem) String() string {
	switch p {
	case Missing:
		return "missing"
	case WrongType:
		return "wrong type"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("Problem(%d)", int(p))
	}
}

// FieldError reports a required field that is absent or has the wrong shape.
// Field is the dotted path of the key, such as "info.piece length".
type FieldError struct {
	Field   string
	Problem Problem
	Want    bencode.Kind
	Got     bencode.Kind
	Detail  string
}

func (e *FieldError) Error() string {
	switch e.Problem {
	case Missing:
		return fmt.Sprintf("metainfo: missing %s", e.Field)
	case WrongType:
		return fmt.Sprintf("metainfo: %s is a %s, want %s", e.Field, e.Got, e.Want)
	default:
		return fmt.Sprintf("metainfo: invalid %s: %s", e.Field, e.Detail)
	}
}

type TorrentMeta struct {
	Announce    string
	CreatedBy   string
	Name        string
	PieceLength int64
	Length      int64

	Pieces [][]byte

	// InfoBytes is the canonical encoding of the info dictionary; InfoHash
	// is its digest.
	InfoBytes []byte
	InfoHash  digest.Digest
	Algorithm digest.Algorithm

	// Canonical is set by ParseTorrent when the file's own info bytes
	// already matched InfoBytes.
	Canonical bool
}

// Summary is the announce/length/info-hash triple printed by the CLI.
type Summary struct {
	Announce string `json:"announce" yaml:"announce"`
	Length   int64  `json:"length" yaml:"length"`
	InfoHash string `json:"infoHash" yaml:"infoHash"`
}

func (m *TorrentMeta) Summary() Summary {
	return Summary{
		Announce: m.Announce,
		Length:   m.Length,
		InfoHash: m.InfoHash.Hex(),
	}
}

// PieceHashes returns the hex form of every entry in the pieces table.
func (m *TorrentMeta) PieceHashes() []string {
	out := make([]string, len(m.Pieces))
	for i, p := range m.Pieces {
		out[i] = digest.Digest(p).Hex()
	}
	return out
}

type Options struct {
	// Algorithm hashes the info dictionary; empty means digest.Default.
	Algorithm digest.Algorithm
	// MaxDepth limits nesting while decoding; zero means the decoder default.
	MaxDepth int
}

// ParseTorrent decodes a complete metadata file and extracts its fields.
func ParseTorrent(data []byte, opts Options) (*TorrentMeta, error) {
	dec := bencode.NewDecoder(data)
	dec.MaxDepth = opts.MaxDepth

	root, rawInfo, err := dec.DictSpan("info")
	if errors.Is(err, bencode.ErrNotDict) {
		if _, err := bencode.DecodeDepth(data, opts.MaxDepth); err != nil {
			return nil, err
		}
		return nil, ErrNotDictionary
	}
	if err != nil {
		return nil, err
	}
	if dec.Pos() != len(data) {
		return nil, &bencode.DecodeError{Kind: bencode.TrailingBytesAfterTopLevelValue, Offset: dec.Pos()}
	}

	meta, err := Extract(root, opts.Algorithm)
	if err != nil {
		return nil, err
	}
	meta.Canonical = bytes.Equal(rawInfo, meta.InfoBytes)
	return meta, nil
}

// Extract projects a decoded top-level dictionary onto TorrentMeta and
// computes the info-hash over the canonical encoding of "info".
func Extract(root bencode.Bvalue, alg digest.Algorithm) (*TorrentMeta, error) {
	if alg == "" {
		alg = digest.Default
	}

	top, ok := root.(bencode.BDict)
	if !ok {
		return nil, ErrNotDictionary
	}

	announce, err := getString(top, "", "announce")
	if err != nil {
		return nil, err
	}

	createdBy, err := optionalString(top, "", "created by")
	if err != nil {
		return nil, err
	}

	info, err := getDict(top, "", "info")
	if err != nil {
		return nil, err
	}

	length, err := getInt(info, "info.", "length")
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, &FieldError{Field: "info.length", Problem: Invalid, Detail: fmt.Sprintf("negative length %d", length)}
	}

	name, err := getString(info, "info.", "name")
	if err != nil {
		return nil, err
	}

	pieceLength, err := getInt(info, "info.", "piece length")
	if err != nil {
		return nil, err
	}
	if pieceLength <= 0 {
		return nil, &FieldError{Field: "info.piece length", Problem: Invalid, Detail: fmt.Sprintf("piece length %d is not positive", pieceLength)}
	}

	piecesRaw, err := getBytes(info, "info.", "pieces")
	if err != nil {
		return nil, err
	}
	if len(piecesRaw)%PieceHashSize != 0 {
		return nil, &FieldError{
			Field:   "info.pieces",
			Problem: Invalid,
			Detail:  fmt.Sprintf("%d bytes is not a multiple of %d", len(piecesRaw), PieceHashSize),
		}
	}

	pieces := make([][]byte, 0, len(piecesRaw)/PieceHashSize)
	for i := 0; i < len(piecesRaw); i += PieceHashSize {
		pieces = append(pieces, piecesRaw[i:i+PieceHashSize:i+PieceHashSize])
	}

	infoBytes := bencode.Encode(info)
	hash, err := digest.Sum(alg, infoBytes)
	if err != nil {
		return nil, err
	}

	return &TorrentMeta{
		Announce:    announce,
		CreatedBy:   createdBy,
		Name:        name,
		PieceLength: pieceLength,
		Length:      length,
		Pieces:      pieces,
		InfoBytes:   infoBytes,
		InfoHash:    hash,
		Algorithm:   alg,
	}, nil
}

func lookup(d bencode.BDict, prefix, key string, want bencode.Kind) (bencode.Bvalue, error) {
	v, ok := d.Get(key)
	if !ok {
		return nil, &FieldError{Field: prefix + key, Problem: Missing, Want: want}
	}
	if v.Kind() != want {
		return nil, &FieldError{Field: prefix + key, Problem: WrongType, Want: want, Got: v.Kind()}
	}
	return v, nil
}

func getBytes(d bencode.BDict, prefix, key string) ([]byte, error) {
	v, err := lookup(d, prefix, key, bencode.KindString)
	if err != nil {
		return nil, err
	}
	return v.(bencode.BString), nil
}

func getString(d bencode.BDict, prefix, key string) (string, error) {
	b, err := getBytes(d, prefix, key)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func optionalString(d bencode.BDict, prefix, key string) (string, error) {
	if _, ok := d.Get(key); !ok {
		return "", nil
	}
	return getString(d, prefix, key)
}

func getInt(d bencode.BDict, prefix, key string) (int64, error) {
	v, err := lookup(d, prefix, key, bencode.KindInt)
	if err != nil {
		return 0, err
	}
	return int64(v.(bencode.BInt)), nil
}

func getDict(d bencode.BDict, prefix, key string) (bencode.BDict, error) {
	v, err := lookup(d, prefix, key, bencode.KindDict)
	if err != nil {
		return bencode.BDict{}, err
	}
	return v.(bencode.BDict), nil
}
