package filter

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks criteria the engine cannot evaluate. Callers
// should re-prompt rather than retry.
var ErrConfiguration = errors.New("filter configuration error")

// Sentinel kinds for the engine.
var (
	ErrUnknownRankColumn = fmt.Errorf("%w: unknown rank column", ErrConfiguration)
	ErrNilDataset        = errors.New("dataset is nil")
)
