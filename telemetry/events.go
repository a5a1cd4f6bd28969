// Package telemetry provides windowed diagnostics collection and export
// for the particle engine.
package telemetry

// EventType mirrors engine.CollisionType plus the domain-exit sentinel,
// for telemetry event counting independent of the engine package.
type EventType uint8

const (
	EventElastic EventType = iota
	EventExcite
	EventIonize
	EventAttach
	EventWentOut
)
