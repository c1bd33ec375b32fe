package vlc

import (
	"bytes"
	"testing"

	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"
)

// a skewed cumulative-frequency vector over a 257-symbol alphabet,
// mimicking a partially-adapted order-0 model.
func testCum() []uint16 {
	const alpha = 257
	prob := make([]uint16, alpha+2)
	for i := 1; i <= alpha; i++ {
		prob[i] = 1
	}
	prob[1] = 200 // symbol 0 heavily favoured
	cum := make([]uint16, alpha+2)
	var total uint16
	for i := alpha; i >= 0; i-- {
		cum[i] = total
		total += prob[i]
	}
	return cum
}

func TestArithmeticRoundTrip(t *testing.T) {
	cum := testCum()
	indices := []int{1, 1, 2, 50, 257, 1, 3, 257}

	var buf bytes.Buffer
	enc := NewArithmeticEncoder(bitio.NewWriter(&buf))
	for _, idx := range indices {
		if err := enc.EncodeIndex(idx, cum); err != nil {
			t.Fatalf("EncodeIndex: %v", err)
		}
	}
	if err := enc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	dec, err := NewArithmeticDecoder(bitio.NewReader(bytes.NewReader(buf.Bytes())))
	if err != nil {
		t.Fatalf("NewArithmeticDecoder: %v", err)
	}
	for i, want := range indices {
		got, err := dec.DecodeIndex(cum)
		if err != nil {
			t.Fatalf("DecodeIndex at %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("index %d: got %d want %d", i, got, want)
		}
	}
}

func TestUnaryRiceGolombRoundTrip(t *testing.T) {
	cum := testCum()
	indices := []int{1, 2, 10, 257, 5}

	type pair struct {
		name string
		enc  Encoder
		dec  Decoder
	}
	var buf1, buf2, buf3 bytes.Buffer
	pairs := []pair{
		{"unary", NewUnaryEncoder(bitio.NewWriter(&buf1)), nil},
		{"rice", NewRiceEncoder(bitio.NewWriter(&buf2)), nil},
		{"golomb", NewGolombEncoder(bitio.NewWriter(&buf3)), nil},
	}
	bufs := []*bytes.Buffer{&buf1, &buf2, &buf3}

	for pi, p := range pairs {
		for _, idx := range indices {
			if err := p.enc.EncodeIndex(idx, cum); err != nil {
				t.Fatalf("%s EncodeIndex: %v", p.name, err)
			}
		}
		if err := p.enc.Finish(); err != nil {
			t.Fatalf("%s Finish: %v", p.name, err)
		}
		_ = pi
	}

	decoders := []Decoder{
		NewUnaryDecoder(bitio.NewReader(bytes.NewReader(bufs[0].Bytes()))),
		NewRiceDecoder(bitio.NewReader(bytes.NewReader(bufs[1].Bytes()))),
		NewGolombDecoder(bitio.NewReader(bytes.NewReader(bufs[2].Bytes()))),
	}
	for pi, dec := range decoders {
		for i, want := range indices {
			got, err := dec.DecodeIndex(cum)
			if err != nil {
				t.Fatalf("%s DecodeIndex at %d: %v", pairs[pi].name, i, err)
			}
			if got != want {
				t.Fatalf("%s index %d: got %d want %d", pairs[pi].name, i, got, want)
			}
		}
	}
}
