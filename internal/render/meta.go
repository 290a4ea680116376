package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"torrent-inspect/internal/metainfo"
)

type metaDocument struct {
	metainfo.Summary `yaml:",inline"`

	Name        string   `json:"name" yaml:"name"`
	CreatedBy   string   `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	PieceLength int64    `json:"pieceLength" yaml:"pieceLength"`
	PieceHashes []string `json:"pieceHashes" yaml:"pieceHashes"`
	Algorithm   string   `json:"algorithm" yaml:"algorithm"`
	Canonical   bool     `json:"canonical" yaml:"canonical"`
}

func document(m *metainfo.TorrentMeta) metaDocument {
	return metaDocument{
		Summary:     m.Summary(),
		Name:        m.Name,
		CreatedBy:   m.CreatedBy,
		PieceLength: m.PieceLength,
		PieceHashes: m.PieceHashes(),
		Algorithm:   string(m.Algorithm),
		Canonical:   m.Canonical,
	}
}

// Meta writes the extracted metadata of one torrent.
func Meta(w io.Writer, m *metainfo.TorrentMeta, f Format) error {
	switch f {
	case Text:
		return writeMetaText(w, m)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(document(m))
	case YAML:
		return writeYAML(w, document(m))
	case CBOR:
		return writeCBOR(w, document(m))
	case CBORDiag:
		return writeCBORDiag(w, document(m))
	default:
		return fmt.Errorf("render: unknown format %q", string(f))
	}
}

func writeMetaText(w io.Writer, m *metainfo.TorrentMeta) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Tracker URL: %s\n", m.Announce)
	fmt.Fprintf(&b, "Length: %d\n", m.Length)
	fmt.Fprintf(&b, "Info Hash: %s\n", m.InfoHash.Hex())
	fmt.Fprintf(&b, "Name: %s\n", m.Name)
	if m.CreatedBy != "" {
		fmt.Fprintf(&b, "Created By: %s\n", m.CreatedBy)
	}
	fmt.Fprintf(&b, "Piece Length: %d\n", m.PieceLength)
	b.WriteString("Piece Hashes:\n")
	for _, h := range m.PieceHashes() {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
