package engine

import "time"

// State is the controller's lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of a session. It shares no memory with the
// controller, so consumers may keep or modify it freely.
type Snapshot struct {
	State    State
	Playing  bool // Session started and not over (true while paused)
	Paused   bool
	GameOver bool

	Grid [Height][Width]Cell

	Active *Piece // nil between lock and the next spawn
	Ghost  *Piece // nil when Active is nil
	Next   *Piece
	Held   PieceType // PieceNone until the first hold

	CanHold bool

	Score    int
	Level    int
	Lines    int
	Interval time.Duration

	Stats map[PieceType]int

	// ClearingRows lists the rows removed by the last lock while the next
	// spawn is still pending.
	ClearingRows []int
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:    c.state,
		Playing:  c.state == StatePlaying || c.state == StatePaused,
		Paused:   c.state == StatePaused,
		GameOver: c.state == StateGameOver,
		Grid:     c.grid.Rows(),
		Held:     c.held,
		CanHold:  c.canHold,
		Score:    c.score,
		Level:    c.level,
		Lines:    c.lines,
		Interval: c.interval,
		Stats:    c.factory.Stats(),
	}
	if c.active != nil {
		active := *c.active
		ghost := c.ghost
		snap.Active = &active
		snap.Ghost = &ghost
	}
	if c.next != nil {
		next := *c.next
		snap.Next = &next
	}
	if c.pendingSpawn && len(c.clearingRows) > 0 {
		snap.ClearingRows = append([]int(nil), c.clearingRows...)
	}
	return snap
}
