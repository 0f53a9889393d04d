package transitive

import "errors"

// ErrUnsupportedEmptyPath is returned when a path with minimum length zero
// would have to materialize the empty path over two free variables, which
// is unbounded.
var ErrUnsupportedEmptyPath = errors.New(
	"transitive path: evaluating the empty path over two free variables is not supported")
