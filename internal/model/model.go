// Package model implements an order-0 adaptive probabilistic model over
// a 257-symbol alphabet (256 byte values plus an end-of-stream symbol)
// and drives it against any vlc.Encoder/vlc.Decoder, so the arithmetic,
// unary, Rice, and Golomb codecs are the same loop parameterized by the
// VLC in use.
package model

import (
	"io"

	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"
	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/vlc"
)

const (
	alphaSize  = 257
	eos        = alphaSize - 1
	maxCumCount = 16383
)

// Order0 is an adaptive order-0 frequency model. Not safe for
// concurrent use; one instance belongs to exactly one encode or decode
// pass.
type Order0 struct {
	prob []uint16 // length alphaSize+1
	cum  []uint16 // length alphaSize+1, cum[0] is total mass
}

// NewOrder0 returns a freshly initialized model with every symbol
// equiprobable.
func NewOrder0() *Order0 {
	m := &Order0{
		prob: make([]uint16, alphaSize+1),
		cum:  make([]uint16, alphaSize+1),
	}
	for i := 0; i < alphaSize; i++ {
		m.prob[findIndex(i)] = 1
	}
	m.computeCumulative()
	return m
}

func findIndex(symbol int) int  { return symbol + 1 }
func findSymbol(index int) int  { return index - 1 }

// Cum returns the current cumulative-frequency vector, suitable for a
// vlc.Encoder/Decoder call. The returned slice is owned by the model
// and must not be retained past the next Update call.
func (m *Order0) Cum() []uint16 { return m.cum }

func (m *Order0) computeCumulative() {
	var cum uint16
	for i := alphaSize; i >= 0; i-- {
		m.cum[i] = cum
		cum += m.prob[i]
	}
}

func (m *Order0) scale() {
	for i := alphaSize; i >= 0; i-- {
		m.prob[i] = (m.prob[i] + 1) / 2
	}
}

// Update increments the probability of the symbol at index, rescaling
// first if the cumulative count has saturated.
func (m *Order0) Update(index int) {
	if m.cum[0] == maxCumCount {
		m.scale()
		m.computeCumulative()
	}
	m.prob[index]++
	for index > 0 {
		index--
		m.cum[index]++
	}
}

// EncodeStream reads bytes from r and writes an order-0 adaptive
// coding of them, terminated by an encoded end-of-stream symbol, to enc.
func EncodeStream(r io.Reader, enc vlc.Encoder) error {
	m := NewOrder0()
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			index := findIndex(int(buf[0]))
			if err := enc.EncodeIndex(index, m.Cum()); err != nil {
				return err
			}
			m.Update(index)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
	}
	if err := enc.EncodeIndex(findIndex(eos), m.Cum()); err != nil {
		return err
	}
	return enc.Finish()
}

// DecodeStream reads an order-0 adaptive coding from dec and writes the
// reconstructed bytes to w, stopping at the decoded end-of-stream symbol.
func DecodeStream(dec vlc.Decoder, w io.Writer) error {
	m := NewOrder0()
	for {
		index, err := dec.DecodeIndex(m.Cum())
		if err != nil {
			return err
		}
		symbol := findSymbol(index)
		if symbol == eos {
			return nil
		}
		if _, err := w.Write([]byte{byte(symbol)}); err != nil {
			return err
		}
		m.Update(index)
	}
}

// NewBitWriter and NewBitReader are thin re-exports so callers wiring a
// model-based codec don't need to import bitio directly.
func NewBitWriter(w io.Writer) *bitio.Writer { return bitio.NewWriter(w) }
func NewBitReader(r io.Reader) *bitio.Reader { return bitio.NewReader(r) }
