// Package codec unifies every coder in this module behind a single
// name-addressed interface. The dispatch key is a short codec name rather than a number read from a file header,
// since each codec here is a standalone tool rather than one member of
// a shared container format.
package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"
	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/huffman"
	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/lzss"
	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/lzw"
	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/model"
	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/mtf"
	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/ppm"
	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/rle"
	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/vlc"
)

// ErrUnknownCodec is returned by Lookup for a name with no registered codec.
var ErrUnknownCodec = errors.New("codec: unknown name")

// Codec is a stream-to-stream transform and its inverse.
type Codec interface {
	EncodeStream(r io.Reader, w io.Writer) error
	DecodeStream(r io.Reader, w io.Writer) error
}

// PPMOptions configures the ppm codec; other codecs take no parameters.
type PPMOptions struct {
	MaxOrder    int
	MaxContexts int
}

type modelCodec struct {
	newEncoder func(*bitio.Writer) vlc.Encoder
	newDecoder func(*bitio.Reader) (vlc.Decoder, error)
}

func (c modelCodec) EncodeStream(r io.Reader, w io.Writer) error {
	enc := c.newEncoder(model.NewBitWriter(w))
	return model.EncodeStream(r, enc)
}

func (c modelCodec) DecodeStream(r io.Reader, w io.Writer) error {
	dec, err := c.newDecoder(model.NewBitReader(r))
	if err != nil {
		return err
	}
	return model.DecodeStream(dec, w)
}

type streamFuncs struct {
	encode func(io.Reader, io.Writer) error
	decode func(io.Reader, io.Writer) error
}

func (c streamFuncs) EncodeStream(r io.Reader, w io.Writer) error { return c.encode(r, w) }
func (c streamFuncs) DecodeStream(r io.Reader, w io.Writer) error { return c.decode(r, w) }

type ppmCodec struct {
	opts PPMOptions
}

func (c ppmCodec) EncodeStream(r io.Reader, w io.Writer) error {
	return ppm.EncodeStream(r, w, c.opts.MaxOrder, c.opts.MaxContexts)
}

func (c ppmCodec) DecodeStream(r io.Reader, w io.Writer) error {
	return ppm.DecodeStream(r, w, c.opts.MaxOrder, c.opts.MaxContexts)
}

// Names lists every registered codec name, in a stable order suitable
// for a usage message.
var Names = []string{
	"arithmetic", "unary", "rice", "golomb",
	"lzss", "lzw", "huffman", "mtf", "rle", "ppm",
}

// Lookup returns the named codec. ppmOpts is only consulted for "ppm";
// a zero value there selects ppm's own defaults (order 4, the package
// default context-cache bound).
func Lookup(name string, ppmOpts PPMOptions) (Codec, error) {
	switch name {
	case "arithmetic":
		return modelCodec{
			newEncoder: func(w *bitio.Writer) vlc.Encoder { return vlc.NewArithmeticEncoder(w) },
			newDecoder: func(r *bitio.Reader) (vlc.Decoder, error) { return vlc.NewArithmeticDecoder(r) },
		}, nil
	case "unary":
		return modelCodec{
			newEncoder: func(w *bitio.Writer) vlc.Encoder { return vlc.NewUnaryEncoder(w) },
			newDecoder: func(r *bitio.Reader) (vlc.Decoder, error) { return vlc.NewUnaryDecoder(r), nil },
		}, nil
	case "rice":
		return modelCodec{
			newEncoder: func(w *bitio.Writer) vlc.Encoder { return vlc.NewRiceEncoder(w) },
			newDecoder: func(r *bitio.Reader) (vlc.Decoder, error) { return vlc.NewRiceDecoder(r), nil },
		}, nil
	case "golomb":
		return modelCodec{
			newEncoder: func(w *bitio.Writer) vlc.Encoder { return vlc.NewGolombEncoder(w) },
			newDecoder: func(r *bitio.Reader) (vlc.Decoder, error) { return vlc.NewGolombDecoder(r), nil },
		}, nil
	case "lzss":
		return streamFuncs{encode: lzss.EncodeStream, decode: lzss.DecodeStream}, nil
	case "lzw":
		return streamFuncs{encode: lzw.EncodeStream, decode: lzw.DecodeStream}, nil
	case "huffman":
		return streamFuncs{encode: huffman.EncodeStream, decode: huffman.DecodeStream}, nil
	case "mtf":
		return streamFuncs{encode: mtf.EncodeStream, decode: mtf.DecodeStream}, nil
	case "rle":
		return streamFuncs{encode: rle.EncodeStream, decode: rle.DecodeStream}, nil
	case "ppm":
		if ppmOpts.MaxOrder <= 0 {
			ppmOpts.MaxOrder = 4
		}
		if ppmOpts.MaxContexts <= 0 {
			ppmOpts.MaxContexts = ppm.DefaultMaxContexts
		}
		return ppmCodec{opts: ppmOpts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}
