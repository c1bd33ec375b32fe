package bitio

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestPutGetBits(t *testing.T) {
	cases := []struct {
		v uint32
		n int
	}{
		{0, 1},
		{1, 1},
		{0xFF, 8},
		{0x1, 32},
		{0xFFFFFFFF, 32},
		{0x5A5A, 16},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := w.PutBits(c.v, c.n); err != nil {
			t.Fatalf("PutBits: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}
		r := NewReader(bytes.NewReader(buf.Bytes()))
		got, err := r.GetBits(c.n)
		if err != nil {
			t.Fatalf("GetBits: %v", err)
		}
		want := c.v
		if c.n < 32 {
			want &= (1 << uint(c.n)) - 1
		}
		if got != want {
			t.Errorf("v=%#x n=%d: got %#x want %#x", c.v, c.n, got, want)
		}
	}
}

func TestRoundTripRandomBits(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bits := make([]int, 5000)
	for i := range bits {
		bits[i] = rng.Intn(2)
	}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, b := range bits {
		if err := w.PutBit(b); err != nil {
			t.Fatalf("PutBit: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	r := NewReader(bytes.NewReader(buf.Bytes()))
	for i, want := range bits {
		got, err := r.GetBit()
		if err != nil {
			t.Fatalf("GetBit at %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("bit %d: got %d want %d", i, got, want)
		}
	}
}

func TestUnexpectedEOF(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	if _, err := r.GetBit(); err != ErrUnexpectedEOF {
		t.Fatalf("got %v, want ErrUnexpectedEOF", err)
	}
}
