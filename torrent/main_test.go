package main

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleInfo = "d6:lengthi92063e4:name10:sample.txt12:piece lengthi32768e6:pieces20:abcdefghijklmnopqrste"

func sampleTorrent(info string) string {
	return "d8:announce31:http://tracker.example/announce4:info" + info + "e"
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestDecode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"4:spam", `"spam"`},
		{"i-52e", `-52`},
		{"l4:spam4:eggse", `["spam","eggs"]`},
		{"d3:cow3:moo4:spam4:eggse", `{"cow":"moo","spam":"eggs"}`},
	}
	for _, tt := range tests {
		code, stdout, stderr := runCLI(t, "", "decode", tt.input)
		if code != 0 {
			t.Errorf("decode %q exited %d: %s", tt.input, code, stderr)
			continue
		}
		if strings.TrimSpace(stdout) != tt.want {
			t.Errorf("decode %q = %s, want %s", tt.input, stdout, tt.want)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "decode", "i-0e")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "negative zero integer at offset 0") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestDecodeFileAndFormat(t *testing.T) {
	path := writeFile(t, "value.bencode", "d4:name4:spame")
	code, stdout, stderr := runCLI(t, "", "decode", "--file", path, "--output", "yaml")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if strings.TrimSpace(stdout) != "name: spam" {
		t.Errorf("stdout = %q", stdout)
	}

	code, stdout, _ = runCLI(t, "i7e", "decode", "-f", "-")
	if code != 0 || strings.TrimSpace(stdout) != "7" {
		t.Errorf("decode from stdin = %d, %q", code, stdout)
	}
}

func TestDecodeMaxDepth(t *testing.T) {
	code, _, stderr := runCLI(t, "", "decode", "--max-depth", "2", "llleee")
	if code != 1 || !strings.Contains(stderr, "nesting too deep") {
		t.Errorf("exit code = %d, stderr = %q", code, stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"frobnicate"},
		{"decode"},
		{"decode", "4:spam", "extra"},
		{"info"},
		{"decode", "--output", "xml", "4:spam"},
		{"decode", "--no-such-flag"},
	}
	for _, args := range tests {
		if code, _, _ := runCLI(t, "", args...); code != 2 {
			t.Errorf("%v exited %d, want 2", args, code)
		}
	}
}

func TestHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "help")
	if code != 0 || !strings.Contains(stdout, "decode") || !strings.Contains(stdout, "info") {
		t.Errorf("help = %d, %q", code, stdout)
	}
	if code, _, _ := runCLI(t, "", "info", "--help"); code != 0 {
		t.Errorf("info --help exited %d", code)
	}
}

func TestInfo(t *testing.T) {
	path := writeFile(t, "sample.torrent", sampleTorrent(sampleInfo))
	code, stdout, stderr := runCLI(t, "", "info", path)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}

	sum := sha1.Sum([]byte(sampleInfo))
	for _, want := range []string{
		"Tracker URL: http://tracker.example/announce\n",
		"Length: 92063\n",
		"Info Hash: " + hex.EncodeToString(sum[:]) + "\n",
		"Piece Length: 32768\n",
		"Piece Hashes:\n" + hex.EncodeToString([]byte("abcdefghijklmnopqrst")) + "\n",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("info output missing %q:\n%s", want, stdout)
		}
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty", stderr)
	}
}

func TestInfoJSON(t *testing.T) {
	path := writeFile(t, "sample.torrent", sampleTorrent(sampleInfo))
	code, stdout, stderr := runCLI(t, "", "info", "-o", "json", path)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	var doc struct {
		Announce string `json:"announce"`
		Length   int64  `json:"length"`
		InfoHash string `json:"infoHash"`
	}
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("json.Unmarshal: %v\n%s", err, stdout)
	}
	sum := sha1.Sum([]byte(sampleInfo))
	if doc.Announce != "http://tracker.example/announce" || doc.Length != 92063 || doc.InfoHash != hex.EncodeToString(sum[:]) {
		t.Errorf("info json = %+v", doc)
	}
}

func TestInfoNonCanonicalWarns(t *testing.T) {
	shuffled := "d4:name10:sample.txt6:lengthi92063e6:pieces20:abcdefghijklmnopqrst12:piece lengthi32768ee"
	path := writeFile(t, "shuffled.torrent", sampleTorrent(shuffled))

	code, stdout, stderr := runCLI(t, "", "hash", path)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	sum := sha1.Sum([]byte(sampleInfo))
	if strings.TrimSpace(stdout) != hex.EncodeToString(sum[:]) {
		t.Errorf("hash = %s, want %x", stdout, sum)
	}
	if !strings.Contains(stderr, "not canonically encoded") {
		t.Errorf("stderr = %q, want canonical-encoding warning", stderr)
	}
}

func TestInfoMissingField(t *testing.T) {
	path := writeFile(t, "bad.torrent", "d4:infod4:name1:xee")
	code, _, stderr := runCLI(t, "", "info", path)
	if code != 1 || !strings.Contains(stderr, "missing announce") {
		t.Errorf("exit code = %d, stderr = %q", code, stderr)
	}
}

func TestInfoMissingFile(t *testing.T) {
	code, _, _ := runCLI(t, "", "info", filepath.Join(t.TempDir(), "missing.torrent"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestHashAlgorithmFlag(t *testing.T) {
	path := writeFile(t, "sample.torrent", sampleTorrent(sampleInfo))
	code, stdout, stderr := runCLI(t, "", "hash", "--hash", "sha256", path)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	sum := sha256.Sum256([]byte(sampleInfo))
	if strings.TrimSpace(stdout) != hex.EncodeToString(sum[:]) {
		t.Errorf("hash = %s, want %x", stdout, sum)
	}
}

func TestConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "torrent.yaml", "output: cbor-diag\nhash_algorithm: sha1\n")
	code, stdout, stderr := runCLI(t, "", "decode", "--config", cfgPath, "l4:spami7ee")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if strings.TrimSpace(stdout) != `["spam", 7]` {
		t.Errorf("stdout = %q", stdout)
	}

	// Flags take precedence over the file.
	code, stdout, _ = runCLI(t, "", "decode", "--config", cfgPath, "-o", "json", "4:spam")
	if code != 0 || strings.TrimSpace(stdout) != `"spam"` {
		t.Errorf("decode with -o json = %d, %q", code, stdout)
	}

	bad := writeFile(t, "bad.yaml", "max_depth: -1\n")
	if code, _, _ := runCLI(t, "", "decode", "--config", bad, "4:spam"); code != 2 {
		t.Errorf("bad config exited %d, want 2", code)
	}
}

func TestEncodeJSON(t *testing.T) {
	code, stdout, stderr := runCLI(t, `{"spam":"eggs","cow":"moo","n":[1,-2]}`, "encode")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if stdout != "d3:cow3:moo1:nli1ei-2ee4:spam4:eggse" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestEncodeYAMLToFile(t *testing.T) {
	input := writeFile(t, "info.yaml", "name: sample.txt\nlength: 92063\npiece length: 32768\npieces: abcdefghijklmnopqrst\n")
	out := filepath.Join(t.TempDir(), "info.bencode")

	code, stdout, stderr := runCLI(t, "", "encode", "--input", "yaml", "--out", out, input)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != sampleInfo {
		t.Errorf("encoded = %q, want %q", got, sampleInfo)
	}
}

func TestEncodeErrors(t *testing.T) {
	if code, _, _ := runCLI(t, `{"a":1.5}`, "encode"); code != 1 {
		t.Errorf("fractional number exited %d, want 1", code)
	}
	if code, _, _ := runCLI(t, `{"a":1} {}`, "encode"); code != 1 {
		t.Errorf("trailing document exited %d, want 1", code)
	}
	if code, _, _ := runCLI(t, `{}`, "encode", "--input", "toml"); code != 2 {
		t.Errorf("unknown input format exited %d, want 2", code)
	}
}
