package autodiff

import "github.com/pkg/errors"

// Engine errors. All are programmer/usage errors: execution is
// deterministic, so failures surface immediately and are never retried.
var (
	// ErrGraphFreed is returned when backward is attempted through a tape
	// segment that a previous backward already consumed.
	ErrGraphFreed = errors.New("graph segment already freed; run backward with RetainGraph to traverse it again")

	// ErrNoGradInputs is returned when no tensor requiring grad is
	// reachable from the given outputs.
	ErrNoGradInputs = errors.New("no tensors requiring grad found in inputs")

	// ErrUnusedInput is returned by Grad when an input is not connected to
	// any output and AllowUnused is false.
	ErrUnusedInput = errors.New("input is not reachable from the outputs (set AllowUnused to receive nil instead)")
)
