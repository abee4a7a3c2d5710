package rover

import (
	"time"

	"github.com/planetintel/rover-expedition/expedition/planet"
)

// DefaultFullBattery is the battery capacity used when none is specified.
const DefaultFullBattery = planet.DefaultFullBattery

// MoveReason explains why a move attempt was refused.
type MoveReason string

const (
	ReasonNone            MoveReason = ""
	ReasonObstructed      MoveReason = "Obstructed Space"
	ReasonOutOfBounds     MoveReason = "Out of Bounds"
	ReasonBatteryDepleted MoveReason = "Insufficient Battery"
)

// MoveRecord is a single entry in the rover's move log.
type MoveRecord struct {
	Direction  string            `json:"direction"`
	From       planet.Coordinate `json:"from"`
	To         planet.Coordinate `json:"to"`
	Battery    int               `json:"battery"`
	Success    bool              `json:"success"`
	Reason     MoveReason        `json:"reason,omitempty"`
	MoveNumber int               `json:"move_number"`
	Timestamp  int64             `json:"timestamp"`
}

// Rover moves across a planet grid while tracking its own battery.
type Rover struct {
	planet    *planet.Planet
	pos       planet.Coordinate
	battery   int
	capacity  int
	unlimited bool
	log       []MoveRecord
	attempts  int
	moves     int
}

// New creates a rover parked on the planet's home cell with the given
// battery capacity. A capacity of zero is honored literally: the rover can
// observe its own cell but never move.
func New(p *planet.Planet, capacity int) *Rover {
	return &Rover{
		planet:   p,
		pos:      p.Home(),
		battery:  capacity,
		capacity: capacity,
	}
}

// NewWithDefaults creates a rover with the default battery capacity.
func NewWithDefaults(p *planet.Planet) *Rover {
	return New(p, DefaultFullBattery)
}

// NewUnbounded creates a rover whose battery never depletes. Used by the
// unconstrained full-surface survey.
func NewUnbounded(p *planet.Planet) *Rover {
	r := New(p, DefaultFullBattery)
	r.unlimited = true
	return r
}

// Move attempts one step in the given direction. It returns whether the
// move happened and, when it did not, the reason. Obstruction and bounds
// are checked before battery so a drained rover still learns about
// adjacent obstacles.
func (r *Rover) Move(d planet.Direction) (bool, MoveReason) {
	dest := r.pos.Step(d)

	sym, inBounds := r.planet.SymbolAt(dest)
	switch {
	case !inBounds:
		return r.refuse(d, dest, ReasonOutOfBounds)
	case sym == planet.SymbolObstructed:
		return r.refuse(d, dest, ReasonObstructed)
	case !r.unlimited && r.battery <= 0:
		return r.refuse(d, dest, ReasonBatteryDepleted)
	}

	from := r.pos
	r.pos = dest
	if !r.unlimited {
		r.battery--
		if sym == planet.SymbolHome {
			r.battery = r.capacity
		}
	}

	r.moves++
	r.record(d, from, dest, true, ReasonNone)
	return true, ReasonNone
}

func (r *Rover) refuse(d planet.Direction, dest planet.Coordinate, reason MoveReason) (bool, MoveReason) {
	r.record(d, r.pos, dest, false, reason)
	return false, reason
}

func (r *Rover) record(d planet.Direction, from, to planet.Coordinate, success bool, reason MoveReason) {
	r.attempts++
	r.log = append(r.log, MoveRecord{
		Direction:  d.String(),
		From:       from,
		To:         to,
		Battery:    r.battery,
		Success:    success,
		Reason:     reason,
		MoveNumber: r.attempts,
		Timestamp:  time.Now().Unix(),
	})
}

// LocationSymbol returns the terrain symbol of the cell the rover occupies.
func (r *Rover) LocationSymbol() byte {
	sym, _ := r.planet.SymbolAt(r.pos)
	return sym
}

// Position returns the rover's absolute grid coordinate.
func (r *Rover) Position() planet.Coordinate {
	return r.pos
}

// Battery returns the remaining battery units.
func (r *Rover) Battery() int {
	return r.battery
}

// Capacity returns the full battery capacity.
func (r *Rover) Capacity() int {
	return r.capacity
}

// AtHome reports whether the rover is parked on the home cell.
func (r *Rover) AtHome() bool {
	return r.pos == r.planet.Home()
}

// MoveLog returns all recorded move attempts in order.
func (r *Rover) MoveLog() []MoveRecord {
	return r.log
}

// SuccessfulMoves returns the count of moves that actually happened.
func (r *Rover) SuccessfulMoves() int {
	return r.moves
}

// Reset parks the rover back on the home cell with a full battery and
// clears the move log.
func (r *Rover) Reset() {
	r.pos = r.planet.Home()
	r.battery = r.capacity
	r.log = nil
	r.attempts = 0
	r.moves = 0
}
