package huffman

import (
	"io"
	"os"
)

// spill is a temp-file-backed buffer used to re-read the input during
// the encoder's second pass, without assuming the whole input fits in
// memory. Always removed via close, including on error paths.
type spill struct {
	f *os.File
}

func newSpill() (*spill, error) {
	f, err := os.CreateTemp("", "huffman-spill-*")
	if err != nil {
		return nil, err
	}
	return &spill{f: f}, nil
}

func (s *spill) Write(p []byte) (int, error) { return s.f.Write(p) }

// rewind seeks back to the start of the spill file for the second pass.
func (s *spill) rewind() error {
	_, err := s.f.Seek(0, io.SeekStart)
	return err
}

func (s *spill) Read(p []byte) (int, error) { return s.f.Read(p) }

// close releases the temp file, removing it from disk regardless of
// whether the encode succeeded.
func (s *spill) close() error {
	name := s.f.Name()
	cerr := s.f.Close()
	rerr := os.Remove(name)
	if cerr != nil {
		return cerr
	}
	return rerr
}
