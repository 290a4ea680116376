// Package digest is the hash primitive used for info-hashes. It maps an
// algorithm name to a fixed-size digest function.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
)

// Algorithm names a supported hash function.
type Algorithm string

const (
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	MD5    Algorithm = "md5"
	BLAKE3 Algorithm = "blake3"
)

// Default is the algorithm BitTorrent v1 uses for info-hashes.
const Default = SHA1

// Digest is the output of one hash computation.
type Digest []byte

// Hex returns the lowercase hex form of d.
func (d Digest) Hex() string {
	return hex.EncodeToString(d)
}

func (d Digest) String() string {
	return d.Hex()
}

// Algorithms lists every supported algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{SHA1, SHA256, MD5, BLAKE3}
}

// ParseAlgorithm accepts an algorithm name in any letter case. An empty
// name selects Default.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return Default, nil
	}
	alg := Algorithm(strings.ToLower(name))
	if alg.Size() == 0 {
		return "", fmt.Errorf("digest: unknown algorithm %q", name)
	}
	return alg, nil
}

// Size returns the digest length in bytes, or 0 for an unknown algorithm.
func (a Algorithm) Size() int {
	switch a {
	case SHA1:
		return sha1.Size
	case SHA256:
		return sha256.Size
	case MD5:
		return md5.Size
	case BLAKE3:
		return 32
	default:
		return 0
	}
}

// Sum hashes data with alg.
func Sum(alg Algorithm, data []byte) (Digest, error) {
	switch alg {
	case SHA1:
		sum := sha1.Sum(data)
		return sum[:], nil
	case SHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case MD5:
		sum := md5.Sum(data)
		return sum[:], nil
	case BLAKE3:
		sum := blake3.Sum256(data)
		return sum[:], nil
	default:
		return nil, fmt.Errorf("digest: unknown algorithm %q", string(alg))
	}
}

// ParseDigest decodes a hex digest and checks its length against alg.
func ParseDigest(alg Algorithm, hexString string) (Digest, error) {
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, fmt.Errorf("parsing %s digest: %w", alg, err)
	}
	if size := alg.Size(); len(decoded) != size {
		return nil, fmt.Errorf("%s digest is %d bytes, want %d", alg, len(decoded), size)
	}
	return decoded, nil
}
