package product

import "errors"

// Sentinel errors classifying bad inputs. Callers wrap them with
// fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrShape flags a structural mismatch between a price path and the
	// observation schedule: wrong path length, or path keys that do not
	// match the declared underlyings.
	ErrShape = errors.New("shape mismatch")

	// ErrDomain flags numerically invalid values: non-positive prices,
	// barriers outside (0, 2], non-increasing observation dates.
	ErrDomain = errors.New("domain violation")
)
