package vlc

import "github.com/vicente-gonzalez-ruiz/basic-compression-tools/internal/bitio"

// Precision of the coding interval, in bits. Bounds the smallest
// interval the incremental-transmission loop can still subdivide; the
// order-0 model's maxCumCount is chosen so that cum[0] never exceeds
// a quarter of 1<<bitAccuracy, keeping range/cum[0] from underflowing.
const bitAccuracy = 16

const (
	top    = (uint32(1) << bitAccuracy) - 1
	quarter = top/4 + 1
	half    = quarter * 2
	threeQ  = quarter * 3
)

// ArithmeticEncoder is a Witten-Neal-Cleary binary arithmetic coder.
type ArithmeticEncoder struct {
	w             *bitio.Writer
	low, high     uint32
	bitsToFollow  int
}

// NewArithmeticEncoder returns an encoder writing to w.
func NewArithmeticEncoder(w *bitio.Writer) *ArithmeticEncoder {
	return &ArithmeticEncoder{w: w, low: 0, high: top}
}

func (e *ArithmeticEncoder) bitPlusFollow(bit int) error {
	if err := e.w.PutBit(bit); err != nil {
		return err
	}
	for e.bitsToFollow > 0 {
		if err := e.w.PutBit(1 - bit); err != nil {
			return err
		}
		e.bitsToFollow--
	}
	return nil
}

// EncodeIndex encodes index using the cumulative-frequency vector cum.
func (e *ArithmeticEncoder) EncodeIndex(index int, cum []uint16) error {
	rng := uint64(e.high-e.low) + 1
	total := uint64(cum[0])
	e.high = e.low + uint32(rng*uint64(cum[index-1])/total) - 1
	e.low = e.low + uint32(rng*uint64(cum[index])/total)

	for {
		switch {
		case e.high < half:
			if err := e.bitPlusFollow(0); err != nil {
				return err
			}
		case e.low >= half:
			if err := e.bitPlusFollow(1); err != nil {
				return err
			}
			e.low -= half
			e.high -= half
		case e.low >= quarter && e.high < threeQ:
			e.bitsToFollow++
			e.low -= quarter
			e.high -= quarter
		default:
			return nil
		}
		e.low = 2 * e.low
		e.high = 2*e.high + 1
	}
}

// Finish transmits the two bits that select the quarter the final
// interval lies in, then flushes the bit writer.
func (e *ArithmeticEncoder) Finish() error {
	e.bitsToFollow++
	bit := 1
	if e.low < quarter {
		bit = 0
	}
	if err := e.bitPlusFollow(bit); err != nil {
		return err
	}
	return e.w.Flush()
}

// ArithmeticDecoder is the decoding counterpart of ArithmeticEncoder.
type ArithmeticDecoder struct {
	r                   *bitio.Reader
	low, high, value     uint32
	pastEnd             int
}

// nextBit returns the next code bit. The code register runs ahead of
// the encoder's output, so up to bitAccuracy bits past the end of the
// stream read as 0 instead of failing.
func (d *ArithmeticDecoder) nextBit() (int, error) {
	bit, err := d.r.GetBit()
	if err == bitio.ErrUnexpectedEOF && d.pastEnd < bitAccuracy {
		d.pastEnd++
		return 0, nil
	}
	return bit, err
}

// NewArithmeticDecoder returns a decoder reading from r. It primes the
// code register with bitAccuracy bits before the first DecodeIndex call.
func NewArithmeticDecoder(r *bitio.Reader) (*ArithmeticDecoder, error) {
	d := &ArithmeticDecoder{r: r, high: top}
	for i := 0; i < bitAccuracy; i++ {
		bit, err := d.nextBit()
		if err != nil {
			return nil, err
		}
		d.value = 2*d.value + uint32(bit)
	}
	return d, nil
}

// DecodeIndex decodes the next index using cumulative-frequency vector cum.
func (d *ArithmeticDecoder) DecodeIndex(cum []uint16) (int, error) {
	rng := uint64(d.high-d.low) + 1
	total := uint64(cum[0])
	target := ((uint64(d.value-d.low)+1)*total - 1) / rng

	index := 1
	for uint64(cum[index]) > target {
		index++
	}

	d.high = d.low + uint32(rng*uint64(cum[index-1])/total) - 1
	d.low = d.low + uint32(rng*uint64(cum[index])/total)

	for {
		switch {
		case d.high < half:
		case d.low >= half:
			d.value -= half
			d.low -= half
			d.high -= half
		case d.low >= quarter && d.high < threeQ:
			d.value -= quarter
			d.low -= quarter
			d.high -= quarter
		default:
			return index, nil
		}
		d.low = 2 * d.low
		d.high = 2*d.high + 1
		d.value = 2 * d.value
		bit, err := d.nextBit()
		if err != nil {
			return 0, err
		}
		d.value += uint32(bit)
	}
}
