package model

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"
	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/vlc"
)

func roundTrip(t *testing.T, name string, input []byte,
	newEnc func(*bitio.Writer) vlc.Encoder,
	newDec func(*bitio.Reader) vlc.Decoder) {
	t.Helper()
	var buf bytes.Buffer
	enc := newEnc(bitio.NewWriter(&buf))
	if err := EncodeStream(bytes.NewReader(input), enc); err != nil {
		t.Fatalf("%s EncodeStream: %v", name, err)
	}
	dec := newDec(bitio.NewReader(bytes.NewReader(buf.Bytes())))
	var out bytes.Buffer
	if err := DecodeStream(dec, &out); err != nil {
		t.Fatalf("%s DecodeStream: %v", name, err)
	}
	if !bytes.Equal(out.Bytes(), input) {
		t.Fatalf("%s: round trip mismatch, got %d bytes want %d", name, out.Len(), len(input))
	}
}

func TestRoundTripAllVLCs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	random64k := make([]byte, 64*1024)
	rng.Read(random64k)

	inputs := map[string][]byte{
		"empty":    {},
		"single":   []byte("A"),
		"repeated": bytes.Repeat([]byte("A"), 17),
		"random64k": random64k,
	}

	for name, input := range inputs {
		roundTrip(t, "arith/"+name, input,
			func(w *bitio.Writer) vlc.Encoder { return vlc.NewArithmeticEncoder(w) },
			func(r *bitio.Reader) vlc.Decoder {
				d, err := vlc.NewArithmeticDecoder(r)
				if err != nil {
					t.Fatalf("NewArithmeticDecoder: %v", err)
				}
				return d
			})
		roundTrip(t, "unary/"+name, input,
			func(w *bitio.Writer) vlc.Encoder { return vlc.NewUnaryEncoder(w) },
			func(r *bitio.Reader) vlc.Decoder { return vlc.NewUnaryDecoder(r) })
		roundTrip(t, "rice/"+name, input,
			func(w *bitio.Writer) vlc.Encoder { return vlc.NewRiceEncoder(w) },
			func(r *bitio.Reader) vlc.Decoder { return vlc.NewRiceDecoder(r) })
		roundTrip(t, "golomb/"+name, input,
			func(w *bitio.Writer) vlc.Encoder { return vlc.NewGolombEncoder(w) },
			func(r *bitio.Reader) vlc.Decoder { return vlc.NewGolombDecoder(r) })
	}
}
