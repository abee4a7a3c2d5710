// Package planet defines the terrain model for rover expeditions.
//
// A Planet is a fixed rectangular grid of terrain symbols with exactly one
// home cell. The package provides:
//   - Coordinate and Direction primitives shared by the rover and explorer
//   - Grid construction from layout strings or JSON configurations
//   - Configuration validation (uniform rows, legal symbols, single home)
//   - Reachability analysis over the raw grid
//
// The explorer never reads a Planet directly; it discovers terrain through
// the rover's move outcomes. Planet accessors exist for the rover itself,
// for the unconstrained full-surface survey, and for offline analysis.
package planet
