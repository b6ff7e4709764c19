package risk

import "errors"

// ErrCSV wraps any failure on the batch parse/predict/write path. The batch
// surface exposes exactly this one error class.
var ErrCSV = errors.New("CSV Error")

// ErrUnknownLabel indicates a form selection outside its declared label set.
var ErrUnknownLabel = errors.New("unknown label")

// ErrOutOfRange indicates a coded selection outside its declared domain.
var ErrOutOfRange = errors.New("out of range")
