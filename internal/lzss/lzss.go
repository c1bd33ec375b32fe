// Package lzss implements a Storer & Szymanski LZ77 dictionary coder:
// a sliding window indexed by a lexicographically ordered binary search
// tree of window suffixes, emitting either an unencoded literal byte or
// an (index, length) match record per step.
package lzss

import (
	"io"

	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"
)

const (
	indexSize      = 12
	windowSize     = 1 << indexSize
	lengthSize     = 4
	rawLookAhead   = 1 << lengthSize
	minEncodedSize = (1 + indexSize + lengthSize) / 9
	lookAheadSize  = rawLookAhead + minEncodedSize
	treeRoot       = windowSize
	endOfStream    = 0
	unused         = 0
)

type node struct {
	parent, smaller, larger int
}

type tree struct {
	window [windowSize]byte
	nodes  [windowSize + 1]node
}

func (t *tree) initTree(r int) {
	t.nodes[treeRoot].larger = r
	t.nodes[r].parent = treeRoot
	t.nodes[r].larger = unused
	t.nodes[r].smaller = unused
}

func modWindow(a int) int { return a & (windowSize - 1) }

func (t *tree) contractNode(oldNode, newNode int) {
	t.nodes[newNode].parent = t.nodes[oldNode].parent
	p := t.nodes[oldNode].parent
	if t.nodes[p].larger == oldNode {
		t.nodes[p].larger = newNode
	} else {
		t.nodes[p].smaller = newNode
	}
	t.nodes[oldNode].parent = unused
}

func (t *tree) replaceNode(oldNode, newNode int) {
	parent := t.nodes[oldNode].parent
	if t.nodes[parent].smaller == oldNode {
		t.nodes[parent].smaller = newNode
	} else {
		t.nodes[parent].larger = newNode
	}
	t.nodes[newNode] = t.nodes[oldNode]
	t.nodes[t.nodes[newNode].smaller].parent = newNode
	t.nodes[t.nodes[newNode].larger].parent = newNode
	t.nodes[oldNode].parent = unused
}

// findNextNode assumes node has a smaller child: descend once to it,
// then repeatedly to the larger child until a leaf.
func (t *tree) findNextNode(n int) int {
	next := t.nodes[n].smaller
	for t.nodes[next].larger != unused {
		next = t.nodes[next].larger
	}
	return next
}

// deleteString removes a node from the tree. Recursion depth is bounded
// at 2: the replacement found by findNextNode never itself has both
// children, since it is the in-order predecessor of p.
func (t *tree) deleteString(p int) {
	if t.nodes[p].parent == unused {
		return
	}
	if t.nodes[p].larger == unused {
		t.contractNode(p, t.nodes[p].smaller)
	} else if t.nodes[p].smaller == unused {
		t.contractNode(p, t.nodes[p].larger)
	} else {
		replacement := t.findNextNode(p)
		t.deleteString(replacement)
		t.replaceNode(p, replacement)
	}
}

// addString inserts newNode into the tree and returns the length and
// position of the best match found along the way.
func (t *tree) addString(newNode int) (matchLength, matchPosition int) {
	if newNode == endOfStream {
		return 0, 0
	}
	testNode := t.nodes[treeRoot].larger
	matchLength = 0
	var delta int
	for {
		i := 0
		for ; i < lookAheadSize; i++ {
			delta = int(t.window[modWindow(newNode+i)]) - int(t.window[modWindow(testNode+i)])
			if delta != 0 {
				break
			}
		}
		if i >= matchLength {
			matchLength = i
			matchPosition = testNode
			if matchLength >= lookAheadSize {
				t.replaceNode(testNode, newNode)
				return matchLength, matchPosition
			}
		}
		var child *int
		if delta >= 0 {
			child = &t.nodes[testNode].larger
		} else {
			child = &t.nodes[testNode].smaller
		}
		if *child == unused {
			*child = newNode
			t.nodes[newNode].parent = testNode
			t.nodes[newNode].larger = unused
			t.nodes[newNode].smaller = unused
			return matchLength, matchPosition
		}
		testNode = *child
	}
}

// EncodeStream reads bytes from r and writes an LZSS coding of them to w.
func EncodeStream(r io.Reader, w io.Writer) error {
	t := &tree{}
	bw := bitio.NewWriter(w)

	br := newByteSource(r)

	currentPosition := 1
	lookAheadBytes := 0
	for ; lookAheadBytes < lookAheadSize; lookAheadBytes++ {
		c, ok := br.next()
		if !ok {
			break
		}
		t.window[currentPosition+lookAheadBytes] = c
	}

	t.initTree(currentPosition)
	matchLength := 0
	matchPosition := 0

	for lookAheadBytes > 0 {
		if matchLength > lookAheadBytes {
			matchLength = lookAheadBytes
		}
		var replaceCount int
		if matchLength <= minEncodedSize {
			if err := bw.PutBit(1); err != nil {
				return err
			}
			if err := bw.PutBits(uint32(t.window[currentPosition]), 8); err != nil {
				return err
			}
			replaceCount = 1
		} else {
			if err := bw.PutBit(0); err != nil {
				return err
			}
			if err := bw.PutBits(uint32(matchPosition), indexSize); err != nil {
				return err
			}
			if err := bw.PutBits(uint32(matchLength-(minEncodedSize+1)), lengthSize); err != nil {
				return err
			}
			replaceCount = matchLength
		}

		for i := 0; i < replaceCount; i++ {
			t.deleteString(modWindow(currentPosition + lookAheadSize))
			c, ok := br.next()
			if !ok {
				lookAheadBytes--
			} else {
				t.window[modWindow(currentPosition+lookAheadSize)] = c
			}
			currentPosition = modWindow(currentPosition + 1)
			if lookAheadBytes > 0 {
				matchLength, matchPosition = t.addString(currentPosition)
			}
		}
	}

	if err := bw.PutBit(0); err != nil {
		return err
	}
	if err := bw.PutBits(endOfStream, indexSize); err != nil {
		return err
	}
	return bw.Flush()
}

// DecodeStream reads an LZSS coding from r and writes the reconstructed
// bytes to w.
func DecodeStream(r io.Reader, w io.Writer) error {
	var window [windowSize]byte
	br := bitio.NewReader(r)
	currentPosition := 1

	for {
		bit, err := br.GetBit()
		if err != nil {
			return err
		}
		if bit != 0 {
			c, err := br.GetBits(8)
			if err != nil {
				return err
			}
			if _, err := w.Write([]byte{byte(c)}); err != nil {
				return err
			}
			window[currentPosition] = byte(c)
			currentPosition = modWindow(currentPosition + 1)
			continue
		}
		matchPosition, err := br.GetBits(indexSize)
		if err != nil {
			return err
		}
		if matchPosition == endOfStream {
			return nil
		}
		matchLength, err := br.GetBits(lengthSize)
		if err != nil {
			return err
		}
		matchLength += minEncodedSize
		for i := uint32(0); i <= matchLength; i++ {
			c := window[modWindow(int(matchPosition)+int(i))]
			if _, err := w.Write([]byte{c}); err != nil {
				return err
			}
			window[currentPosition] = c
			currentPosition = modWindow(currentPosition + 1)
		}
	}
}

// byteSource adapts an io.Reader to the getchar()-style one-byte-or-EOF
// pull the encoder's look-ahead fill loop wants.
type byteSource struct {
	r   io.Reader
	buf [1]byte
}

func newByteSource(r io.Reader) *byteSource { return &byteSource{r: r} }

func (b *byteSource) next() (byte, bool) {
	n, err := b.r.Read(b.buf[:])
	if n > 0 {
		return b.buf[0], true
	}
	_ = err
	return 0, false
}
