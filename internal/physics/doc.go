// Package physics holds the gravity core: bodies, their registry and the
// step integrator.
//
//   - [Body]: a mass with position, velocity, derived radius and a [Trail]
//   - [Registry]: the fixed, ordered set of bodies a simulation owns
//   - [Stepper]: O(n²) direct-summation step with boundary bounce
//   - [Generate]: random bodies for demos
//
// # Degenerate distances
//
// Forces inside the stepper use max(d, MinDistance) as the separation, so
// coincident or nearly coincident bodies produce a finite kick. With
// ContactClamp (the default) the floor is max(MinDistance, ra+rb): a body
// that passes through another feels at most the pull it would at contact.
// A 10-mass body touching the 1500-mass anchor of the presets gets a kick
// of about 4 per step, where the bare floor of 1 gives 1200, enough to
// throw it hundreds of units past a wall. Exactly coincident bodies are
// pushed along +x, the direction atan2(0, 0) yields. [GravityForce] is the unclamped form and reports
// [dynamo.ErrDegenerateForce] instead.
//
// # Example
//
//	reg, _ := physics.FromDescriptors(descs)
//	st, _ := physics.NewStepper(physics.DefaultStepConfig())
//	for i := 0; i < steps; i++ {
//	    st.Step(reg)
//	}
package physics
