package vlc

import "github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"

// estimateK derives a Rice parameter from how quickly the
// cumulative-frequency vector's symbol probabilities decay. Stops after
// at most 8 steps (so k <= 8) and floored at 3 because bitio's unary prefix cannot usefully
// exceed 32 bits (256/32 = 2^3).
func estimateK(cum []uint16) int {
	prob := func(x int) int { return int(cum[x-1]) - int(cum[x]) }
	k, i := 0, 1
	for prob(i+1) > prob(i)/2 {
		i++
		k++
		if k > 7 {
			break
		}
	}
	if k < 3 {
		k = 3
	}
	return k
}

type RiceEncoder struct{ w *bitio.Writer }

func NewRiceEncoder(w *bitio.Writer) *RiceEncoder { return &RiceEncoder{w: w} }

func (e *RiceEncoder) EncodeIndex(index int, cum []uint16) error {
	k := estimateK(cum)
	m := 1 << uint(k)
	s := index - 1
	for i := 0; i < s/m; i++ {
		if err := e.w.PutBit(1); err != nil {
			return err
		}
	}
	if err := e.w.PutBit(0); err != nil {
		return err
	}
	return e.w.PutBits(uint32(s), k)
}

func (e *RiceEncoder) Finish() error { return e.w.Flush() }

type RiceDecoder struct{ r *bitio.Reader }

func NewRiceDecoder(r *bitio.Reader) *RiceDecoder { return &RiceDecoder{r: r} }

func (d *RiceDecoder) DecodeIndex(cum []uint16) (int, error) {
	k := estimateK(cum)
	s := 0
	for {
		bit, err := d.r.GetBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			break
		}
		s++
	}
	if k > 0 {
		x, err := d.r.GetBits(k)
		if err != nil {
			return 0, err
		}
		s = (s << uint(k)) + int(x)
	}
	return s + 1, nil
}
