package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"torrent-inspect/internal/bencode"
	"torrent-inspect/internal/metainfo"
	"torrent-inspect/internal/render"
	"torrent-inspect/internal/storage"
)

var decodeCommand = &command{
	name:    "decode",
	args:    "<bencoded-value>",
	summary: "Decode one bencoded value and print it",
	format:  render.JSON,
	flags: func(fs *pflag.FlagSet, opts *options) {
		fs.StringVarP(&opts.file, "file", "f", "", "decode the contents of this file instead (- for stdin)")
	},
	run: runDecode,
}

var infoCommand = &command{
	name:    "info",
	args:    "<file.torrent>",
	summary: "Print tracker URL, length, info-hash and piece hashes of a torrent file",
	format:  render.Text,
	run:     runInfo,
}

var hashCommand = &command{
	name:    "hash",
	args:    "<file.torrent>",
	summary: "Print only the info-hash of a torrent file",
	format:  render.Text,
	run:     runHash,
}

var encodeCommand = &command{
	name:    "encode",
	args:    "[file|-]",
	summary: "Encode a JSON or YAML document as canonical bencode",
	format:  render.Text,
	flags: func(fs *pflag.FlagSet, opts *options) {
		fs.StringVar(&opts.input, "input", "json", "input format: json, yaml")
		fs.StringVar(&opts.out, "out", "", "write to this file instead of stdout")
	},
	run: runEncode,
}

func (e *env) readInput(path string) ([]byte, error) {
	if path == "-" {
		return storage.ReadAllFrom(e.stdin)
	}
	return storage.ReadAll(path)
}

func runDecode(e *env, args []string) error {
	var data []byte
	switch {
	case e.opts.file != "" && len(args) == 0:
		var err error
		if data, err = e.readInput(e.opts.file); err != nil {
			return err
		}
	case e.opts.file == "" && len(args) == 1:
		data = []byte(args[0])
	default:
		return usagef("decode takes exactly one bencoded value or --file")
	}

	v, err := bencode.DecodeDepth(data, e.cfg.MaxDepth)
	if err != nil {
		return err
	}
	e.logger.Debug("decoded value", "kind", v.Kind().String(), "bytes", len(data))

	return render.Value(e.stdout, v, e.format)
}

func (e *env) parseTorrentArg(args []string) (*metainfo.TorrentMeta, error) {
	if len(args) != 1 {
		return nil, usagef("expected exactly one torrent file")
	}
	path := args[0]

	data, err := e.readInput(path)
	if err != nil {
		return nil, err
	}

	meta, err := metainfo.ParseTorrent(data, metainfo.Options{
		Algorithm: e.cfg.Algorithm(),
		MaxDepth:  e.cfg.MaxDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	e.logger.Debug("parsed torrent",
		"path", path,
		"name", meta.Name,
		"pieces", len(meta.Pieces),
		"algorithm", string(meta.Algorithm),
	)
	if !meta.Canonical {
		e.logger.Warn("info dictionary is not canonically encoded, hashing the re-encoded form", "path", path)
	}
	return meta, nil
}

func runInfo(e *env, args []string) error {
	meta, err := e.parseTorrentArg(args)
	if err != nil {
		return err
	}
	return render.Meta(e.stdout, meta, e.format)
}

func runHash(e *env, args []string) error {
	meta, err := e.parseTorrentArg(args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, meta.InfoHash.Hex())
	return err
}

func runEncode(e *env, args []string) error {
	path := "-"
	switch len(args) {
	case 0:
	case 1:
		path = args[0]
	default:
		return usagef("encode takes at most one input file")
	}

	data, err := e.readInput(path)
	if err != nil {
		return err
	}

	doc, err := parseDocument(data, e.opts.input)
	if err != nil {
		return err
	}
	v, err := bencode.FromNative(doc)
	if err != nil {
		return err
	}
	e.logger.Debug("encoding document", "input", e.opts.input, "kind", v.Kind().String())

	if e.opts.out != "" {
		return storage.WriteFile(e.opts.out, bencode.Encode(v))
	}
	return bencode.NewEncoder(e.stdout).Encode(v)
}

func parseDocument(data []byte, format string) (any, error) {
	var doc any
	switch strings.ToLower(format) {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, fmt.Errorf("parsing json: trailing data after document")
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	default:
		return nil, usagef("unknown input format %q (want json or yaml)", format)
	}
	return doc, nil
}
