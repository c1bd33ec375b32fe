package vlc

import "github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"

// UnaryEncoder/UnaryDecoder encode an index as a run of (index-1) one
// bits followed by a terminating zero. The cumulative-frequency vector
// is accepted for interface uniformity but unused.
type UnaryEncoder struct{ w *bitio.Writer }

func NewUnaryEncoder(w *bitio.Writer) *UnaryEncoder { return &UnaryEncoder{w: w} }

func (e *UnaryEncoder) EncodeIndex(index int, cum []uint16) error {
	for i := 0; i < index-1; i++ {
		if err := e.w.PutBit(1); err != nil {
			return err
		}
	}
	return e.w.PutBit(0)
}

func (e *UnaryEncoder) Finish() error { return e.w.Flush() }

type UnaryDecoder struct{ r *bitio.Reader }

func NewUnaryDecoder(r *bitio.Reader) *UnaryDecoder { return &UnaryDecoder{r: r} }

func (d *UnaryDecoder) DecodeIndex(cum []uint16) (int, error) {
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
	return s + 1, nil
}
