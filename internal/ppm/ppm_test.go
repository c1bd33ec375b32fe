package ppm

import (
	"bytes"
	"math/rand"
	"testing"
)

func roundTrip(t *testing.T, input []byte, maxOrder int) {
	t.Helper()
	var coded bytes.Buffer
	if err := EncodeStream(bytes.NewReader(input), &coded, maxOrder, 1024); err != nil {
		t.Fatalf("EncodeStream: %v", err)
	}
	for _, b := range coded.Bytes() {
		if b > 255 {
			t.Fatalf("rank byte out of range: %d", b)
		}
	}
	var out bytes.Buffer
	if err := DecodeStream(bytes.NewReader(coded.Bytes()), &out, maxOrder, 1024); err != nil {
		t.Fatalf("DecodeStream: %v", err)
	}
	if !bytes.Equal(out.Bytes(), input) {
		t.Fatalf("round trip mismatch at order %d: got %q want %q", maxOrder, out.Bytes(), input)
	}
}

func TestRoundTripAllOrders(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := make([]byte, 16*1024)
	rng.Read(random)

	cases := map[string][]byte{
		"empty":      {},
		"single":     []byte("a"),
		"short":      []byte("ab"),
		"repeated":   bytes.Repeat([]byte("banana"), 200),
		"text":       []byte("the quick brown fox jumps over the lazy dog, again and again"),
		"random 16k": random,
	}

	for name, input := range cases {
		for _, order := range []int{0, 1, 2, 4, 8} {
			t.Run(name, func(t *testing.T) { roundTrip(t, input, order) })
		}
	}
}

func TestRoundTripBoundedCache(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	random := make([]byte, 64*1024)
	rng.Read(random)

	var coded bytes.Buffer
	if err := EncodeStream(bytes.NewReader(random), &coded, 6, 64); err != nil {
		t.Fatalf("EncodeStream: %v", err)
	}
	var out bytes.Buffer
	if err := DecodeStream(bytes.NewReader(coded.Bytes()), &out, 6, 64); err != nil {
		t.Fatalf("DecodeStream: %v", err)
	}
	if !bytes.Equal(out.Bytes(), random) {
		t.Fatalf("round trip mismatch under a tight cache bound")
	}
}
