// Command psnr compares two byte streams block by block and reports
// energy, MSE, RMSE, SNR, and PSNR between them, optionally comparing
// their per-block frequency spectra instead of their raw samples.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
)

const defaultBlockSize = 352*288 + (352/2)*(288/2)*2

func main() {
	var (
		fileA     = flag.String("file_A", "", "first file to compare")
		fileB     = flag.String("file_B", "", "second file to compare")
		sampleTyp = flag.String("type", "uchar", "sample type: uchar or ushort")
		peak      = flag.Int("peak", 255, "peak signal value")
		blockSize = flag.Int("block_size", defaultBlockSize, "block size in samples")
		fft       = flag.Bool("fft", false, "compare per-block magnitude spectra instead of raw samples")
	)
	flag.Parse()

	if *fileA == "" || *fileB == "" {
		flag.Usage()
		os.Exit(1)
	}

	a, err := os.Open(*fileA)
	if err != nil {
		fmt.Fprintf(os.Stderr, "psnr: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()
	b, err := os.Open(*fileB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "psnr: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	sampleSize := 1
	if *sampleTyp == "ushort" {
		sampleSize = 2
	}

	ra, rb := bufio.NewReader(a), bufio.NewReader(b)
	var energyA, energyB, energyError float64
	var count int

	for block := 0; ; block++ {
		sa, na, err := readSamples(ra, sampleSize, *blockSize)
		if err != nil && na == 0 {
			break
		}
		sb, nb, err2 := readSamples(rb, sampleSize, *blockSize)
		if err2 != nil && nb == 0 {
			break
		}
		n := na
		if nb < n {
			n = nb
		}
		if n == 0 {
			break
		}
		sa, sb = sa[:n], sb[:n]
		if *fft {
			sa, sb = magnitudeSpectrum(sa), magnitudeSpectrum(sb)
		}

		var blockErr, blockA float64
		for i := range sa {
			ea, eb := sa[i], sb[i]
			diff := ea - eb
			energyA += ea * ea
			energyB += eb * eb
			energyError += diff * diff
			blockA += ea * ea
			blockErr += diff * diff
			count++
		}
		fmt.Fprintf(os.Stderr, "%3d\t%f\n", block, psnrDB(blockErr/float64(len(sa)), float64(*peak)))
		_ = blockA
		if err != nil || err2 != nil {
			break
		}
	}

	mse := 0.0
	if count > 0 {
		mse = energyError / float64(count)
	}
	rmse := math.Sqrt(mse)
	snr := 1.0
	if energyError > 0 {
		snr = energyA / energyError
	}
	psnr := math.Inf(1)
	if mse > 0 {
		psnr = float64(*peak) * float64(*peak) / mse
	}

	fmt.Printf("Energy_A\t=\t%f\n", energyA)
	fmt.Printf("Energy_B\t=\t%f\n", energyB)
	fmt.Printf("Energy_error\t=\t%f\n", energyError)
	fmt.Printf("Number of samples\t=\t%d\n", count)
	fmt.Printf("MSE\t=\t%f\n", mse)
	fmt.Printf("RMSE\t=\t%f\n", rmse)
	snrDB := 10 * math.Log10(snr)
	if energyError == 0 {
		snrDB = 1.0
	}
	fmt.Printf("SNR\t=\t%f\n", snr)
	fmt.Printf("SNR[dB]\t=\t%f\n", snrDB)
	fmt.Printf("PSNR\t=\t%f\n", psnr)
	fmt.Printf("PSNR[dB]\t=\t%f\n", psnrDB(mse, float64(*peak)))
}

func psnrDB(mse, peak float64) float64 {
	if mse <= 0 {
		return 1.0
	}
	return 10 * math.Log10(peak*peak/mse)
}

func readSamples(r *bufio.Reader, sampleSize, blockSize int) ([]float64, int, error) {
	buf := make([]byte, sampleSize*blockSize)
	n, err := io.ReadFull(r, buf)
	if n <= 0 {
		return nil, 0, err
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	n -= n % sampleSize
	samples := make([]float64, n/sampleSize)
	for i := range samples {
		if sampleSize == 2 {
			samples[i] = float64(uint16(buf[2*i]) | uint16(buf[2*i+1])<<8)
		} else {
			samples[i] = float64(buf[i])
		}
	}
	return samples, len(samples), err
}

// magnitudeSpectrum returns the magnitude of the discrete Fourier
// transform of samples. A direct O(n^2) transform; block sizes here
// are small frame-sized chunks, not whole files, so this is cheap
// enough without reaching for a dedicated FFT library.
func magnitudeSpectrum(samples []float64) []float64 {
	n := len(samples)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum complex128
		for t, s := range samples {
			angle := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			sum += complex(s, 0) * cmplx.Exp(complex(0, angle))
		}
		out[k] = cmplx.Abs(sum)
	}
	return out
}
