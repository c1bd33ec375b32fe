package lzss

import (
	"bytes"
	"math/rand"
	"testing"
)

func roundTrip(t *testing.T, input []byte) {
	t.Helper()
	var compressed bytes.Buffer
	if err := EncodeStream(bytes.NewReader(input), &compressed); err != nil {
		t.Fatalf("EncodeStream: %v", err)
	}
	var out bytes.Buffer
	if err := DecodeStream(bytes.NewReader(compressed.Bytes()), &out); err != nil {
		t.Fatalf("DecodeStream: %v", err)
	}
	if !bytes.Equal(out.Bytes(), input) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", out.Len(), len(input))
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random64k := make([]byte, 64*1024)
	rng.Read(random64k)

	cases := map[string][]byte{
		"empty":        {},
		"single byte":  []byte("A"),
		"17 repeats":   bytes.Repeat([]byte("A"), 17),
		"window cross": bytes.Repeat([]byte("ab"), windowSize),
		"random 64k":   random64k,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) { roundTrip(t, input) })
	}
}
