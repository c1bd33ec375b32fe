package vlc

import (
	"math"

	"github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"
)

// estimateM derives a Golomb-Rice divisor from the probability of the
// most likely symbol (index 1), floored at 8 for the same reason
// estimateK is floored at 3.
func estimateM(cum []uint16) int {
	p1 := float64(cum[0]) - float64(cum[1])
	m := int(255 - 255.0*p1/float64(cum[0]))
	if m < 8 {
		m = 8
	}
	return m
}

type GolombEncoder struct{ w *bitio.Writer }

func NewGolombEncoder(w *bitio.Writer) *GolombEncoder { return &GolombEncoder{w: w} }

func (e *GolombEncoder) EncodeIndex(index int, cum []uint16) error {
	m := estimateM(cum)
	k := int(math.Ceil(math.Log2(float64(m))))
	t := (1 << uint(k)) - m
	s := index - 1
	r := s % m
	for i := 0; i < s/m; i++ {
		if err := e.w.PutBit(1); err != nil {
			return err
		}
	}
	if err := e.w.PutBit(0); err != nil {
		return err
	}
	if r < t {
		return e.w.PutBits(uint32(r), k-1)
	}
	return e.w.PutBits(uint32(r+t), k)
}

func (e *GolombEncoder) Finish() error { return e.w.Flush() }

type GolombDecoder struct{ r *bitio.Reader }

func NewGolombDecoder(r *bitio.Reader) *GolombDecoder { return &GolombDecoder{r: r} }

func (d *GolombDecoder) DecodeIndex(cum []uint16) (int, error) {
	m := estimateM(cum)
	k := int(math.Ceil(math.Log2(float64(m))))
	t := (1 << uint(k)) - m
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
	x, err := d.r.GetBits(k - 1)
	if err != nil {
		return 0, err
	}
	xi := int(x)
	if xi < t {
		s = s*m + xi
	} else {
		bit, err := d.r.GetBit()
		if err != nil {
			return 0, err
		}
		xi = xi*2 + bit
		s = s*m + xi - t
	}
	return s + 1, nil
}
