package errs

import "errors"

var (
	// ErrInvalidSubmission marks caller input that was rejected before any process was spawned
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrInfrastructure marks a failure that prevented judging, as opposed to a verdict
	ErrInfrastructure = errors.New("infrastructure fault")
	ErrProcessGone    = errors.New("process no longer exists")
)

var ErrNodeNotFound = errors.New("node not found")
