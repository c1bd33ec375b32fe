package codec

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTripAllCodecs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	random := make([]byte, 8*1024)
	rng.Read(random)

	inputs := map[string][]byte{
		"empty":    {},
		"text":     []byte("the quick brown fox jumps over the lazy dog"),
		"repeated": bytes.Repeat([]byte("ab"), 500),
		"random":   random,
	}

	for _, name := range Names {
		c, err := Lookup(name, PPMOptions{})
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		for inputName, input := range inputs {
			t.Run(name+"/"+inputName, func(t *testing.T) {
				var coded bytes.Buffer
				if err := c.EncodeStream(bytes.NewReader(input), &coded); err != nil {
					t.Fatalf("EncodeStream: %v", err)
				}
				var out bytes.Buffer
				if err := c.DecodeStream(bytes.NewReader(coded.Bytes()), &out); err != nil {
					t.Fatalf("DecodeStream: %v", err)
				}
				if !bytes.Equal(out.Bytes(), input) {
					t.Fatalf("round trip mismatch: got %q want %q", out.Bytes(), input)
				}
			})
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("bogus", PPMOptions{}); err == nil {
		t.Fatal("expected an error for an unknown codec name")
	}
}
