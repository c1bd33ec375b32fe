// Package mtf implements the Move-To-Front transform: each input byte
// is replaced by its current position in a 256-entry recency list, and
// that entry is then shifted to the front of the list.
package mtf

import "io"

type order [256]byte

func newOrder() order {
	var o order
	for i := range o {
		o[i] = byte(i)
	}
	return o
}

func (o *order) shiftToFront(pos int, sym byte) {
	for j := pos; j > 0; j-- {
		o[j] = o[j-1]
	}
	o[0] = sym
}

// EncodeStream replaces each byte of r with its rank in the recency
// list and writes the ranks to w.
func EncodeStream(r io.Reader, w io.Writer) error {
	o := newOrder()
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		for _, c := range buf[:n] {
			i := 0
			for o[i] != c {
				i++
			}
			if _, werr := w.Write([]byte{byte(i)}); werr != nil {
				return werr
			}
			o.shiftToFront(i, c)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// DecodeStream is the inverse of EncodeStream.
func DecodeStream(r io.Reader, w io.Writer) error {
	o := newOrder()
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		for _, idx := range buf[:n] {
			c := o[idx]
			if _, werr := w.Write([]byte{c}); werr != nil {
				return werr
			}
			o.shiftToFront(int(idx), c)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
