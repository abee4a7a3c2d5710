// Package rover implements the mobile surface unit that expeditions drive
// across a planet.
//
// A Rover is an exclusively-owned handle: one planet, one position, one
// battery. Each successful move consumes one battery unit; standing on the
// home cell recharges the battery to capacity. Moves are refused when the
// destination is obstructed or off the grid, or when the battery is empty.
// Every attempt, successful or not, is appended to the move log.
//
// The rover reports terrain only for the cell it occupies. Callers that
// want a map must discover it move by move.
package rover
