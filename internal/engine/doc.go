// Package engine owns the live pattern instances and their frame clocks.
//
// Each activated mode gets its own generator, entity pools and clock:
//
//	eng, _ := engine.New(pattern.Size{Width: 800, Height: 600}, engine.WithSeed(7))
//	eng.Activate(pattern.NeuroSpark)
//	frame, _ := eng.Tick(pattern.NeuroSpark, drive)
//
// [Engine.Tick] advances only while the engine is running; a paused tick
// still returns the frozen frame. [Engine.Snapshot] never advances.
//
// # Thread Safety
//
// Engine methods are safe for concurrent use. A single instance is only ever
// mutated by one tick at a time, and the frame returned by [Engine.Latest]
// is always a fully committed one.
package engine
