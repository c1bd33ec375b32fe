package rle

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
		t.Fatalf("round trip mismatch: got %q want %q", out.Bytes(), input)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	random := make([]byte, 64*1024)
	rng.Read(random)

	cases := map[string][]byte{
		"empty":         {},
		"single":        []byte("a"),
		"pair":          []byte("ab"),
		"doc example 1": []byte("aab"),
		"doc example 2": []byte("aaab"),
		"doc example 3": []byte("aaaab"),
		"run at cap":    bytes.Repeat([]byte("x"), 256),
		"run past cap":  bytes.Repeat([]byte("x"), 257),
		"long run":      bytes.Repeat([]byte("x"), 1000),
		"leading NUL":   append([]byte{0, 0, 0}, []byte("hello")...),
		"random 64k":    random,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) { roundTrip(t, input) })
	}
}
