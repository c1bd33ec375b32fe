// Command bct is a single filter binary multiplexing every codec in
// this module: raw bytes in on stdin, transformed bytes out on
// stdout, with the codec and direction picked positionally.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/codec"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: bct <codec> <e|d> [maxOrder]\n  codecs: %v\n", codec.Names)
}

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}

	name, dir := os.Args[1], os.Args[2]

	opts := codec.PPMOptions{}
	if name == "ppm" && len(os.Args) > 3 {
		order, err := strconv.Atoi(os.Args[3])
		if err != nil {
			slog.Error("badMaxOrder", "arg", os.Args[3], "err", err)
			os.Exit(2)
		}
		opts.MaxOrder = order
	}

	c, err := codec.Lookup(name, opts)
	if err != nil {
		slog.Error("lookup", "codec", name, "err", err)
		usage()
		os.Exit(2)
	}

	var runErr error
	if len(dir) > 0 && dir[0] == 'e' {
		runErr = c.EncodeStream(os.Stdin, os.Stdout)
	} else {
		runErr = c.DecodeStream(os.Stdin, os.Stdout)
	}
	if runErr != nil {
		slog.Error("streamFailed", "codec", name, "direction", dir, "err", runErr)
		os.Exit(1)
	}
}
