// Package huffman implements a static, two-pass Huffman coder: the
// first pass counts byte frequencies (spilling the input to a temp file
// so it can be re-read), the second pass emits a run-length-compressed
// frequency header followed by the bit-packed code stream.
package huffman

import (
	"errors"
	"io"

	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"
)

const (
	eos          = 256
	sentinelNode = 513
)

// ErrInvalidCode is returned when the decoder walks the tree into an
// unreachable state (a corrupt or truncated stream).
var ErrInvalidCode = errors.New("huffman: invalid code in stream")

type node struct {
	count          uint32
	child0, child1 int
}

type code struct {
	bits  uint32
	nbits int
}

func countBytes(r io.Reader, sp *spill) ([256]uint64, error) {
	var counts [256]uint64
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, b := range buf[:n] {
				counts[b]++
			}
			if _, werr := sp.Write(buf[:n]); werr != nil {
				return counts, werr
			}
		}
		if err != nil {
			if err == io.EOF {
				return counts, nil
			}
			return counts, err
		}
	}
}

// scaleCounts limits counts to fit in a byte, guaranteeing a non-zero
// count never scales down to zero, and gives EOS a nominal weight of 1.
func scaleCounts(counts [256]uint64) [514]node {
	var nodes [514]node
	var maxCount uint64
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		counts[0] = 1
		maxCount = 1
	}
	scale := maxCount/255 + 1
	for i, c := range counts {
		nodes[i].count = uint32((c + scale - 1) / scale)
		if nodes[i].count == 0 && c != 0 {
			nodes[i].count = 1
		}
	}
	nodes[eos].count = 1
	return nodes
}

// outputCounts serializes nodes[0..255].count as runs of
// (start, stop, counts...) terminated by a start byte of 0, tolerating
// gaps of up to 3 zero counts inside a run rather than splitting it.
func outputCounts(nodes [514]node) []byte {
	var out []byte
	first := 0
	for first < 255 && nodes[first].count == 0 {
		first++
	}
	for first < 256 {
		last := first + 1
		var next int
		for {
			for ; last < 256; last++ {
				if nodes[last].count == 0 {
					break
				}
			}
			last--
			for next = last + 1; next < 256; next++ {
				if nodes[next].count != 0 {
					break
				}
			}
			if next > 255 {
				break
			}
			if next-last-1 > 3 {
				break
			}
			last = next
		}
		out = append(out, byte(first), byte(last))
		for i := first; i <= last; i++ {
			out = append(out, byte(nodes[i].count))
		}
		first = next
	}
	out = append(out, 0)
	return out
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// inputCounts is the inverse of outputCounts, reading directly (and
// un-buffered) from r so that a bit reader constructed afterward on the
// same r picks up exactly where the header left off.
func inputCounts(r io.Reader) ([514]node, error) {
	var nodes [514]node
	first, err := readByte(r)
	if err != nil {
		return nodes, err
	}
	for {
		last, err := readByte(r)
		if err != nil {
			return nodes, err
		}
		for i := int(first); i <= int(last); i++ {
			c, err := readByte(r)
			if err != nil {
				return nodes, err
			}
			nodes[i].count = uint32(c)
		}
		first, err = readByte(r)
		if err != nil {
			return nodes, err
		}
		if first == 0 {
			break
		}
	}
	nodes[eos].count = 1
	return nodes, nil
}

// buildTree repeatedly merges the two lowest-count active nodes (using
// a sentinel node of count 0xFFFF to seed the search) until one node
// remains, and returns its index as the tree root.
func buildTree(nodes *[514]node) int {
	nodes[sentinelNode].count = 0xFFFF
	nextFree := eos + 1
	for ; ; nextFree++ {
		min1, min2 := sentinelNode, sentinelNode
		for i := 0; i < nextFree; i++ {
			if nodes[i].count == 0 {
				continue
			}
			if nodes[i].count < nodes[min1].count {
				min2 = min1
				min1 = i
			} else if nodes[i].count < nodes[min2].count {
				min2 = i
			}
		}
		if min2 == sentinelNode {
			break
		}
		nodes[nextFree].count = nodes[min1].count + nodes[min2].count
		nodes[min1].count = 0
		nodes[min2].count = 0
		nodes[nextFree].child0 = min1
		nodes[nextFree].child1 = min2
	}
	return nextFree - 1
}

func convertTreeToCode(nodes *[514]node, codes *[257]code, codeSoFar uint32, bits int, n int) {
	if n <= eos {
		codes[n] = code{bits: codeSoFar, nbits: bits}
		return
	}
	codeSoFar <<= 1
	bits++
	convertTreeToCode(nodes, codes, codeSoFar, bits, nodes[n].child0)
	convertTreeToCode(nodes, codes, codeSoFar|1, bits, nodes[n].child1)
}

// EncodeStream reads bytes from r and writes a static Huffman coding of
// them to w: a run-length-framed frequency header (raw bytes), then the
// bit-packed code stream.
func EncodeStream(r io.Reader, w io.Writer) (err error) {
	sp, err := newSpill()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sp.close(); err == nil {
			err = cerr
		}
	}()

	counts, err := countBytes(r, sp)
	if err != nil {
		return err
	}
	nodes := scaleCounts(counts)

	if _, err = w.Write(outputCounts(nodes)); err != nil {
		return err
	}

	root := buildTree(&nodes)
	var codes [257]code
	convertTreeToCode(&nodes, &codes, 0, 0, root)

	if err = sp.rewind(); err != nil {
		return err
	}

	bw := bitio.NewWriter(w)
	buf := make([]byte, 4096)
	for {
		n, rerr := sp.Read(buf)
		for _, b := range buf[:n] {
			c := codes[b]
			if err = bw.PutBits(c.bits, c.nbits); err != nil {
				return err
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			return rerr
		}
	}
	eosCode := codes[eos]
	if err = bw.PutBits(eosCode.bits, eosCode.nbits); err != nil {
		return err
	}
	return bw.Flush()
}

// DecodeStream reads a static Huffman coding from r and writes the
// reconstructed bytes to w.
func DecodeStream(r io.Reader, w io.Writer) error {
	nodes, err := inputCounts(r)
	if err != nil {
		return err
	}
	root := buildTree(&nodes)

	br := bitio.NewReader(r)
	for {
		n := root
		for n > eos {
			bit, err := br.GetBit()
			if err != nil {
				return err
			}
			if bit != 0 {
				n = nodes[n].child1
			} else {
				n = nodes[n].child0
			}
		}
		if n == eos {
			return nil
		}
		if n < 0 || n > 255 {
			return ErrInvalidCode
		}
		if _, err := w.Write([]byte{byte(n)}); err != nil {
			return err
		}
	}
}
