// Package dynamo provides core simulation primitives for the eyespot engine.
//
// The package defines the fundamental types shared by the integrators, the
// driver and the reaction-diffusion model:
//
//   - [State]: flat vector representing system state
//   - [System]: interface for ODE right-hand sides (dX/dt = f(X, t))
//   - [Observer]: callback invoked at every reported time
//   - [StatePool]: synchronized pool of grid-sized scratch buffers
//
// # Errors
//
// Every failure surfaced by the engine matches one of the sentinels
// [ErrConfiguration], [ErrShape], [ErrNotFound] or [ErrIntegration] via
// errors.Is, so callers can tell which taxonomy member occurred.
//
// # Thread Safety
//
// Systems must be pure functions of their inputs; one run is driven by a
// single goroutine. Independent runs share no mutable state.
package dynamo
