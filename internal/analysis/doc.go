// Package analysis characterizes recorded or running orbits:
//
//   - [DominantPeriod]: strongest period of a coordinate series via [FFT]
//   - [LyapunovExponent]: finite-time divergence of two nearby registries
//   - [OrbitToASCII]: terminal plot of one body's path
//
// A positive exponent means nearby starts separate exponentially:
//
//	lambda, err := analysis.LyapunovExponent(ref, perturbed, stepper, 2000, 50)
//	if err == nil && lambda > 0 {
//	    // sensitive to initial conditions
//	}
package analysis
