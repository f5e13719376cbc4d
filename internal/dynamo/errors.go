package dynamo

import (
	"errors"
	"fmt"
)

// Error taxonomy for simulation operations.
var (
	// ErrConfiguration indicates an invalid grid size, time span, evaluation
	// grid or foci position.
	ErrConfiguration = errors.New("configuration error")

	// ErrShape indicates a state vector or field whose length does not match
	// the configured grid size.
	ErrShape = errors.New("shape error")

	// ErrNotFound indicates removal of a foci position that is not registered.
	ErrNotFound = errors.New("not found")

	// ErrIntegration indicates the solver could not satisfy its tolerance,
	// ran out of steps, produced non-finite values or was canceled.
	ErrIntegration = errors.New("integration error")
)

// Configf returns an error wrapping ErrConfiguration.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Shapef returns an error wrapping ErrShape.
func Shapef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrShape, fmt.Sprintf(format, args...))
}

// SimulationError wraps an integration failure with the step and time at
// which it was detected. It always matches ErrIntegration.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%v: step %d (t=%.6g): %v", ErrIntegration, e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() []error {
	return []error{ErrIntegration, e.Wrapped}
}

// Kind names the taxonomy member err belongs to, or "internal" when it
// matches none of them.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "ConfigurationError"
	case errors.Is(err, ErrShape):
		return "ShapeError"
	case errors.Is(err, ErrNotFound):
		return "NotFoundError"
	case errors.Is(err, ErrIntegration):
		return "IntegrationError"
	default:
		return "internal"
	}
}
