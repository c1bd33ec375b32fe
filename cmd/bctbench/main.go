// Command bctbench measures this module's codecs against a handful of
// established third-party compressors over a set of files selected by
// a glob pattern, verifying every round trip and printing a
// ratio/throughput table.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/DataDog/zstd"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/minio/minlz"
	"github.com/therootcompany/xz"
	"golang.org/x/sync/errgroup"

	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/codec"
)

type result struct {
	file       string
	compressor string
	inputSize  int
	outputSize int
	elapsed    time.Duration
	verified   bool
	err        error
}

func main() {
	pattern := flag.String("glob", "*", "doublestar glob pattern selecting files to benchmark")
	root := flag.String("root", ".", "directory the glob is evaluated against")
	workers := flag.Int("workers", 4, "maximum number of files compressed concurrently")
	flag.Parse()

	files, err := doublestar.Glob(os.DirFS(*root), *pattern)
	if err != nil {
		slog.Error("glob", "pattern", *pattern, "err", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "bctbench: no files matched %q under %q\n", *pattern, *root)
		os.Exit(1)
	}

	compressors := referenceCompressors()

	var (
		mu      sync.Mutex
		results []result
	)
	g := new(errgroup.Group)
	g.SetLimit(*workers)

	for _, f := range files {
		f := f
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(*root, f))
			if err != nil {
				slog.Error("readFile", "file", f, "err", err)
				return nil
			}
			want := xxhash.Sum64(data)

			for _, name := range codec.Names {
				c, err := codec.Lookup(name, codec.PPMOptions{})
				if err != nil {
					continue
				}
				r := runCodec(f, name, data, want, c.EncodeStream, c.DecodeStream)
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}
			for _, ref := range compressors {
				r := runCodec(f, ref.name, data, want, ref.compress, ref.decompress)
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("benchmarkRun", "err", err)
	}

	printTable(results)
}

type referenceCompressor struct {
	name       string
	compress   func(io.Reader, io.Writer) error
	decompress func(io.Reader, io.Writer) error
}

func referenceCompressors() []referenceCompressor {
	return []referenceCompressor{
		{
			name: "flate",
			compress: func(r io.Reader, w io.Writer) error {
				fw, err := flate.NewWriter(w, flate.DefaultCompression)
				if err != nil {
					return err
				}
				if _, err := io.Copy(fw, r); err != nil {
					return err
				}
				return fw.Close()
			},
			decompress: func(r io.Reader, w io.Writer) error {
				fr := flate.NewReader(r)
				defer fr.Close()
				_, err := io.Copy(w, fr)
				return err
			},
		},
		{
			name: "zstd",
			compress: func(r io.Reader, w io.Writer) error {
				zw := zstd.NewWriter(w)
				if _, err := io.Copy(zw, r); err != nil {
					return err
				}
				return zw.Close()
			},
			decompress: func(r io.Reader, w io.Writer) error {
				zr := zstd.NewReader(r)
				defer zr.Close()
				_, err := io.Copy(w, zr)
				return err
			},
		},
		{
			name: "snappy",
			compress: func(r io.Reader, w io.Writer) error {
				sw := snappy.NewBufferedWriter(w)
				if _, err := io.Copy(sw, r); err != nil {
					return err
				}
				return sw.Close()
			},
			decompress: func(r io.Reader, w io.Writer) error {
				_, err := io.Copy(w, snappy.NewReader(r))
				return err
			},
		},
		{
			name: "minlz",
			compress: func(r io.Reader, w io.Writer) error {
				data, err := io.ReadAll(r)
				if err != nil {
					return err
				}
				_, err = w.Write(minlz.Encode(nil, data))
				return err
			},
			decompress: func(r io.Reader, w io.Writer) error {
				data, err := io.ReadAll(r)
				if err != nil {
					return err
				}
				decoded, err := minlz.Decode(nil, data)
				if err != nil {
					return err
				}
				_, err = w.Write(decoded)
				return err
			},
		},
		{
			name: "xz",
			compress: func(r io.Reader, w io.Writer) error {
				xw, err := xz.NewWriter(w, nil)
				if err != nil {
					return err
				}
				if _, err := io.Copy(xw, r); err != nil {
					return err
				}
				return xw.Close()
			},
			decompress: func(r io.Reader, w io.Writer) error {
				xr, err := xz.NewReader(r, nil)
				if err != nil {
					return err
				}
				_, err = io.Copy(w, xr)
				return err
			},
		},
	}
}

func runCodec(file, name string, data []byte, want uint64, encode, decode func(io.Reader, io.Writer) error) result {
	start := time.Now()
	var compressed bytes.Buffer
	if err := encode(bytes.NewReader(data), &compressed); err != nil {
		return result{file: file, compressor: name, inputSize: len(data), err: err}
	}
	elapsed := time.Since(start)

	var decompressed bytes.Buffer
	if err := decode(bytes.NewReader(compressed.Bytes()), &decompressed); err != nil {
		return result{file: file, compressor: name, inputSize: len(data), outputSize: compressed.Len(), elapsed: elapsed, err: err}
	}
	got := xxhash.Sum64(decompressed.Bytes())

	return result{
		file:       file,
		compressor: name,
		inputSize:  len(data),
		outputSize: compressed.Len(),
		elapsed:    elapsed,
		verified:   got == want,
	}
}

func printTable(results []result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].file != results[j].file {
			return results[i].file < results[j].file
		}
		return results[i].compressor < results[j].compressor
	})

	fmt.Printf("%-28s %-12s %10s %10s %8s %10s %s\n",
		"file", "codec", "in", "out", "ratio", "MB/s", "status")
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("%-28s %-12s %10d %10s %8s %10s error: %v\n",
				r.file, r.compressor, r.inputSize, "-", "-", "-", r.err)
			continue
		}
		ratio := float64(r.inputSize) / float64(max(r.outputSize, 1))
		mbps := float64(r.inputSize) / 1e6 / r.elapsed.Seconds()
		status := "ok"
		if !r.verified {
			status = "MISMATCH"
		}
		fmt.Printf("%-28s %-12s %10d %10d %8.2f %10.2f %s\n",
			r.file, r.compressor, r.inputSize, r.outputSize, ratio, mbps, status)
	}
}
