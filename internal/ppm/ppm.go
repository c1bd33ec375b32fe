// Package ppm implements a PPM-style (prediction by partial matching)
// context model. Each symbol is coded against the highest order context
// that has seen it before; contexts that have not seen the symbol
// exclude their already-ranked symbols and escape to the next lower
// order, down to the order-0 context, which always matches.
//
// Contexts are addressed by (order, preceding bytes) and held in a
// bounded cache rather than an unbounded table, so arbitrarily long
// inputs and high orders cannot exhaust memory: a context evicted
// under pressure is simply recreated empty, which only costs a few
// extra escapes the next time it is visited.
package ppm

import (
	"hash/maphash"
	"io"

	"github.com/dgryski/go-tinylfu"
)

const maxCount = 255

// DefaultMaxContexts bounds the number of distinct (order, context)
// entries kept alive at once.
const DefaultMaxContexts = 1 << 20

type symbolNode struct {
	symbol byte
	count  byte
}

type contextList struct {
	nodes []symbolNode
}

// model holds the per-stream state shared by the encoder and decoder:
// the bounded context cache and the exclusion bookkeeping. Encoding and
// decoding apply the identical search/update rules to this state, so
// round-tripping only requires that both sides visit contexts in the
// same order - it does not depend on reproducing any particular
// internal list layout byte-for-byte.
type model struct {
	maxOrder int
	cache    *tinylfu.T[string, *contextList]
	visited  [256]uint64
	gen      uint64
}

func newModel(maxOrder, maxContexts int) *model {
	if maxContexts <= 0 {
		maxContexts = DefaultMaxContexts
	}
	seed := maphash.MakeSeed()
	hasher := func(k string) uint64 { return maphash.String(seed, k) }
	m := &model{maxOrder: maxOrder}
	m.cache = tinylfu.New[string, *contextList](maxContexts, maxContexts*10, hasher)
	return m
}

func contextKey(order int, context []byte) string {
	key := make([]byte, 1+order)
	key[0] = byte(order)
	copy(key[1:], context[:order])
	return string(key)
}

// locate returns the context list for (order, context), creating it on
// first reference. The order-0 context is seeded with every symbol at
// count 0 so it is never empty; that guarantees the order-descent loop
// in EncodeStream/DecodeStream always finds a match by the time it
// reaches order 0, rather than running off the bottom.
func (m *model) locate(order int, context []byte) (*contextList, error) {
	key := contextKey(order, context)
	if cl, ok := m.cache.Get(key); ok {
		return cl, nil
	}
	cl := &contextList{}
	if order == 0 {
		cl.nodes = make([]symbolNode, 256)
		for i := range cl.nodes {
			cl.nodes[i].symbol = byte(i)
		}
	}
	m.cache.Add(key, cl)
	if _, ok := m.cache.Get(key); !ok {
		return nil, ErrContextOverflow
	}
	return cl, nil
}

func (m *model) scale(cl *contextList) {
	for i := range cl.nodes {
		cl.nodes[i].count >>= 1
	}
}

// resort moves the node at idx leftward past any node whose count is
// now lower, keeping the list sorted most-frequent-first while
// preserving relative order among ties.
func resort(nodes []symbolNode, idx int) {
	n := nodes[idx]
	i := idx
	for i > 0 && nodes[i-1].count < n.count {
		nodes[i] = nodes[i-1]
		i--
	}
	nodes[i] = n
}

// insertNew adds symbol as a fresh zero-count entry, placed right
// after the run of already-seen (nonzero-count) entries.
func insertNew(cl *contextList, symbol byte) {
	i := 0
	for i < len(cl.nodes) && cl.nodes[i].count != 0 {
		i++
	}
	cl.nodes = append(cl.nodes, symbolNode{})
	copy(cl.nodes[i+1:], cl.nodes[i:])
	cl.nodes[i] = symbolNode{symbol: symbol, count: 0}
}

// searchUpdate locates symbol within the context at the given order,
// bumping its count (creating it if necessary) and returns its rank
// among the symbols not yet excluded by a higher order - the value
// coded for this order. Every symbol it passes over, matched or not,
// is marked excluded for the rest of this position's coding.
func (m *model) searchUpdate(symbol byte, context []byte, order int) (int, error) {
	cl, err := m.locate(order, context)
	if err != nil {
		return 0, err
	}
	if len(cl.nodes) == 0 {
		cl.nodes = append(cl.nodes, symbolNode{symbol: symbol, count: 0})
		return 0, nil
	}
	code := 0
	idx := -1
	for i := range cl.nodes {
		s := cl.nodes[i].symbol
		if m.visited[s] != m.gen {
			m.visited[s] = m.gen
			if s == symbol {
				idx = i
				break
			}
			code++
		}
	}
	if idx >= 0 {
		if cl.nodes[idx].count == maxCount {
			m.scale(cl)
		}
		cl.nodes[idx].count++
		resort(cl.nodes, idx)
	} else {
		insertNew(cl, symbol)
	}
	return code, nil
}

// findSymbol walks the context looking for the symbol at the given
// rank among not-yet-excluded entries, decrementing code for each one
// skipped and marking it excluded. Returns ok=false (an escape) if the
// list runs out before code reaches zero.
func (m *model) findSymbol(code *int, cl *contextList) (byte, bool) {
	for i := range cl.nodes {
		s := cl.nodes[i].symbol
		if m.visited[s] != m.gen {
			if *code == 0 {
				return s, true
			}
			m.visited[s] = m.gen
			*code--
		}
	}
	return 0, false
}

func (m *model) updateSymbol(cl *contextList, symbol byte) {
	idx := -1
	for i, n := range cl.nodes {
		if n.symbol == symbol {
			idx = i
			break
		}
	}
	if idx < 0 {
		insertNew(cl, symbol)
		return
	}
	if cl.nodes[idx].count == maxCount {
		m.scale(cl)
	}
	cl.nodes[idx].count++
	resort(cl.nodes, idx)
}

func shiftContext(context []byte, symbol byte) {
	for i := len(context) - 1; i > 0; i-- {
		context[i] = context[i-1]
	}
	if len(context) > 0 {
		context[0] = symbol
	}
}

// EncodeStream codes r against a PPM model of the given order and
// writes one rank byte per input byte to w. maxContexts bounds the
// number of distinct contexts retained at once; zero selects
// DefaultMaxContexts.
func EncodeStream(r io.Reader, w io.Writer, maxOrder, maxContexts int) error {
	m := newModel(maxOrder, maxContexts)
	context := make([]byte, maxOrder)

	buf := make([]byte, 1)
	get := func() (byte, bool) {
		n, _ := r.Read(buf)
		if n == 0 {
			return 0, false
		}
		return buf[0], true
	}

	// Seed the context window with the first maxOrder bytes, emitted
	// raw (prefixed with a count) so the decoder can prime its own
	// window identically even when the input is shorter than the
	// model order.
	seedCount := 0
	for ; seedCount < maxOrder; seedCount++ {
		b, ok := get()
		if !ok {
			break
		}
		context[maxOrder-1-seedCount] = b
	}
	if _, err := w.Write([]byte{byte(seedCount)}); err != nil {
		return err
	}
	if _, err := w.Write(context[maxOrder-seedCount:]); err != nil {
		return err
	}
	if seedCount < maxOrder {
		return nil
	}

	for {
		symbol, ok := get()
		if !ok {
			return nil
		}
		m.gen++
		code := 0
		order := maxOrder
		for {
			c, err := m.searchUpdate(symbol, context, order)
			if err != nil {
				return err
			}
			code += c
			if m.visited[symbol] == m.gen {
				break
			}
			order--
		}
		if code > 255 {
			return ErrRankOverflow
		}
		if _, err := w.Write([]byte{byte(code)}); err != nil {
			return err
		}
		shiftContext(context, symbol)
	}
}

// DecodeStream is the inverse of EncodeStream.
func DecodeStream(r io.Reader, w io.Writer, maxOrder, maxContexts int) error {
	m := newModel(maxOrder, maxContexts)
	context := make([]byte, maxOrder)

	buf := make([]byte, 1)
	get := func() (byte, bool) {
		n, _ := r.Read(buf)
		if n == 0 {
			return 0, false
		}
		return buf[0], true
	}

	countByte, ok := get()
	if !ok {
		return nil
	}
	seedCount := int(countByte)
	for i := 0; i < seedCount; i++ {
		b, ok := get()
		if !ok {
			return io.ErrUnexpectedEOF
		}
		context[maxOrder-1-i] = b
	}
	if _, err := w.Write(context[maxOrder-seedCount:]); err != nil {
		return err
	}
	if seedCount < maxOrder {
		return nil
	}

	for {
		rank, ok := get()
		if !ok {
			return nil
		}
		m.gen++
		code := int(rank)
		order := maxOrder
		var symbol byte
		for {
			cl, err := m.locate(order, context)
			if err != nil {
				return err
			}
			if s, found := m.findSymbol(&code, cl); found {
				symbol = s
				m.updateSymbol(cl, symbol)
				break
			}
			order--
		}
		for o := order + 1; o <= maxOrder; o++ {
			cl, err := m.locate(o, context)
			if err != nil {
				return err
			}
			insertNew(cl, symbol)
		}
		if _, err := w.Write([]byte{symbol}); err != nil {
			return err
		}
		shiftContext(context, symbol)
	}
}
