// Package explorer maps unknown planets by driving a rover and observing
// move outcomes. The terrain grid is never read directly.
//
// Two strategies are provided:
//
//   - Explore: battery-constrained layered breadth-first expansion. The
//     frontier grows one radius per round; every excursion walks out from
//     home along a previously validated path, probes the frontier tile's
//     neighbors under a round-trip battery gate, and walks back. The outer
//     loop stops once even the cheapest next-layer round trip (2*(radius+1)
//     moves) could not fit in the budget, so the per-neighbor gate is a
//     refinement rather than the only safety net.
//
//   - FullSurvey: unconstrained depth-first traversal of the entire
//     reachable surface, for rovers with an unbounded battery. Implemented
//     with an explicit frame stack so large planets cannot exhaust the
//     call stack.
//
// Both return a Survey: the sparse discovered-cell map plus, for the
// constrained strategy, the parent tree that yields a shortest direction
// path from home to any discovered cell.
package explorer
