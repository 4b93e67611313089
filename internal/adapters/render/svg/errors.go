package svg

import "errors"

// ErrRender indicates that a plot could not be written.
var ErrRender = errors.New("svg render failed")
