package render

import (
	"encoding/base64"
	"io"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"torrent-inspect/internal/bencode"
)

// yamlNode builds a node tree so mappings keep their decoded key order.
// Byte strings that are not UTF-8 are emitted as !!binary.
func yamlNode(v bencode.Bvalue) *yaml.Node {
	switch x := v.(type) {
	case bencode.BInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(x), 10)}
	case bencode.BString:
		return yamlString(string(x))
	case bencode.BList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range x {
			n.Content = append(n.Content, yamlNode(elem))
		}
		return n
	case bencode.BDict:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range x.Entries() {
			n.Content = append(n.Content, yamlString(e.Key), yamlNode(e.Value))
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func yamlString(s string) *yaml.Node {
	if utf8.ValidString(s) {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString([]byte(s))}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
