// Package lzw implements a Welch-1984 LZW coder over a fixed-size,
// open-addressed, XOR-hashed dictionary, with explicit bump (code-width
// growth) and flush (dictionary reset) control codes.
package lzw

import (
	"errors"
	"io"

	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"
)

const (
	maxCodeBits = 15
	maxCode     = (1 << maxCodeBits) - 1
	tableSize   = 35023

	endOfStream = 256
	bumpCode    = 257
	flushCode   = 258
	firstCode   = 259

	unused = -1
)

// ErrInvalidCode is returned when the decoder reads a code above the
// next code it could assign (a corrupt or truncated stream).
var ErrInvalidCode = errors.New("lzw: invalid code in stream")

type entry struct {
	codeValue  int32
	parentCode int32
	k          byte
}

type dictionary struct {
	entries      [tableSize]entry
	nextW        uint32
	currentBits  int
	nextBumpCode uint32
}

func newDictionary() *dictionary {
	d := &dictionary{}
	d.reset()
	return d
}

func (d *dictionary) reset() {
	for i := range d.entries {
		d.entries[i].codeValue = unused
	}
	d.nextW = firstCode
	d.currentBits = 9
	d.nextBumpCode = 511
}

func findChildNode(d *dictionary, parentCode int, childK int) uint32 {
	index := uint32(childK<<(maxCodeBits-8)) ^ uint32(int32(parentCode))
	var offset uint32
	if index == 0 {
		offset = 1
	} else {
		offset = tableSize - index
	}
	for {
		e := &d.entries[index]
		if e.codeValue == unused {
			return index
		}
		if int(e.parentCode) == parentCode && int(e.k) == childK {
			return index
		}
		if index >= offset {
			index -= offset
		} else {
			index += tableSize - offset
		}
	}
}

// decodeString unwinds the dictionary chain for code w into stack,
// starting at stack[count], and returns the new stack length. Mirrors
// lzw15v.c's string(): characters come out trailing-symbol-first, root
// symbol last.
func decodeString(d *dictionary, stack []byte, count int, w int) int {
	for w > 255 {
		stack[count] = d.entries[w].k
		count++
		w = int(d.entries[w].parentCode)
	}
	stack[count] = byte(w)
	count++
	return count
}

// EncodeStream reads bytes from r and writes an LZW coding of them to w.
func EncodeStream(r io.Reader, w io.Writer) error {
	d := newDictionary()
	bw := bitio.NewWriter(w)

	buf := make([]byte, 1)
	readByte := func() (int, bool) {
		n, err := r.Read(buf)
		if n > 0 {
			return int(buf[0]), true
		}
		_ = err
		return 0, false
	}

	wcode, ok := readByte()
	if !ok {
		wcode = endOfStream
	}

	for {
		k, ok := readByte()
		if !ok {
			break
		}
		index := findChildNode(d, wcode, k)
		e := &d.entries[index]
		if e.codeValue != unused {
			wcode = int(e.codeValue)
			continue
		}
		if err := bw.PutBits(uint32(wcode), d.currentBits); err != nil {
			return err
		}
		e.codeValue = int32(d.nextW)
		e.parentCode = int32(wcode)
		e.k = byte(k)
		d.nextW++
		wcode = k

		if d.nextW > maxCode {
			if err := bw.PutBits(flushCode, d.currentBits); err != nil {
				return err
			}
			d.reset()
		} else if d.nextW > d.nextBumpCode {
			if err := bw.PutBits(bumpCode, d.currentBits); err != nil {
				return err
			}
			d.currentBits++
			d.nextBumpCode = d.nextBumpCode<<1 | 1
		}
	}

	if err := bw.PutBits(uint32(wcode), d.currentBits); err != nil {
		return err
	}
	if err := bw.PutBits(endOfStream, d.currentBits); err != nil {
		return err
	}
	return bw.Flush()
}

// DecodeStream reads an LZW coding from r and writes the reconstructed
// bytes to w.
func DecodeStream(r io.Reader, w io.Writer) error {
	br := bitio.NewReader(r)
	var stack [tableSize]byte

	for {
		d := newDictionary()
		prevW, err := br.GetBits(d.currentBits)
		if err != nil {
			return err
		}
		if prevW == endOfStream {
			return nil
		}
		if _, err := w.Write([]byte{byte(prevW)}); err != nil {
			return err
		}
		k := int(prevW)

		for {
			wc, err := br.GetBits(d.currentBits)
			if err != nil {
				return err
			}
			if wc == endOfStream {
				return nil
			}
			if wc == flushCode {
				break
			}
			if wc == bumpCode {
				d.currentBits++
				continue
			}
			if wc > d.nextW {
				return ErrInvalidCode
			}
			var count int
			if wc >= d.nextW {
				stack[0] = byte(k)
				count = decodeString(d, stack[:], 1, int(prevW))
			} else {
				count = decodeString(d, stack[:], 0, int(wc))
			}
			k = int(stack[count-1])
			for count > 0 {
				count--
				if _, err := w.Write([]byte{stack[count]}); err != nil {
					return err
				}
			}
			d.entries[d.nextW].parentCode = int32(prevW)
			d.entries[d.nextW].k = byte(k)
			d.nextW++
			prevW = wc
		}
	}
}
