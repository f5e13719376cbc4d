// Package eyespot implements the reaction-diffusion model of eyespot
// pigmentation: two diffusible morphogens (M1, M2) driven by a decaying
// source A, converting a precursor pigment P0 into two differentiated
// pigments P1 and P2 on a square grid.
//
// A [Model] owns the kinetic parameters and the [Foci] registry. Each call
// to [Model.NewRun] produces a [Run] that snapshots the registry when its
// initial conditions are built, so later registry changes never leak into
// an existing run:
//
//	m, _ := eyespot.NewModel(eyespot.DefaultParams())
//	_ = m.Foci().Add(eyespot.Pos{Row: 50, Col: 50})
//	sol, err := m.Solve(ctx, span, times, eyespot.RunOptions{})
//
// The flat state vector handed to the integrator is five row-major N×N
// blocks in the order M1, M2, P0, P1, P2. Only [Codec] knows that layout.
package eyespot
