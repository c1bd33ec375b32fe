package lzw

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
	rng := rand.New(rand.NewSource(11))
	random64k := make([]byte, 64*1024)
	rng.Read(random64k)

	cases := map[string][]byte{
		"empty":             {},
		"single byte":       []byte("X"),
		"32800 X (bump)":    bytes.Repeat([]byte("X"), 32800),
		"repeating pattern": bytes.Repeat([]byte("abcabcabc"), 5000),
		"random 64k":        random64k,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) { roundTrip(t, input) })
	}
}
