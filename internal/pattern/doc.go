// Package pattern implements the procedural animation engine behind the five
// pulsegrid modes.
//
// Every mode is a [Generator]: it owns a phase accumulator (and, for some
// modes, an entity pool) that is advanced once per tick and read back as a
// renderer-agnostic [Frame]:
//
//   - [SignalMesh]: 8×6 grid of pulsing lines and nodes
//   - [MagneticField]: particle pool swirling around the canvas centre
//   - [HeatPulse]: concentric gradient rings with orbiting hot spots
//   - [StressWave]: displaced scanlines crossed by vertical stress lines
//   - [NeuroSpark]: random node/connection graph with oscillating sparks
//
// # Inputs
//
// Nothing is read from ambient state. Each tick receives a [Drive] carrying
// the user-tuned [Params] and the global intensity; both are clamped to their
// documented ranges before use.
//
// # Randomness
//
// Pools are seeded from an injected [Source], so a fixed seed reproduces the
// same particle field and graph topology.
//
// # Thread Safety
//
// Generators are NOT thread-safe. Advance and Frame must be called from the
// goroutine that owns the instance; the engine package publishes frames to
// other readers.
package pattern
