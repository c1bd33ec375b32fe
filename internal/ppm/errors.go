package ppm

import "errors"

// ErrRankOverflow is returned if a computed exclusion rank does not
// fit in a single byte, which should not happen for a 256-symbol
// alphabet; it guards against a corrupted or misused model.
var ErrRankOverflow = errors.New("ppm: rank overflow")

// ErrContextOverflow is returned if the bounded context cache refuses
// admission of a context it was just asked to create. TinyLFU's
// window cache always admits a fresh entry, so this should not
// happen; it is a defensive invariant check, not a capacity limit a
// caller is expected to hit in normal operation.
var ErrContextOverflow = errors.New("ppm: context cache overflow")
