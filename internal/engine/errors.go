package engine

import "github.com/rotisserie/eris"

// ErrConfiguration marks failures of the scoring setup rather than the
// data: an unknown preset name, invalid weights, or a record missing an
// attribute the selected preset weights. Fatal to the whole call; nothing
// is silently defaulted.
var ErrConfiguration = eris.New("engine: configuration error")

// ErrEmptyInput marks aggregate calls over an empty record set, kept
// distinct from a valid zero result.
var ErrEmptyInput = eris.New("engine: empty input")
