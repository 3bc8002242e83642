package engine

import "time"

// Event is something observable that happened in a session.
type Event interface {
	engineEvent()
}

// Listener receives each event together with the session state right after
// the change. It runs synchronously on the controller's goroutine and must
// not call back into the controller.
type Listener func(ev Event, snap Snapshot)

// GameStartedEvent is emitted when Start begins a new session.
type GameStartedEvent struct{}

func (GameStartedEvent) engineEvent() {}

// PieceSpawnedEvent is emitted when a piece becomes active.
type PieceSpawnedEvent struct {
	Piece Piece
	Next  Piece
}

func (PieceSpawnedEvent) engineEvent() {}

// PieceMovedEvent is emitted after a successful translation, including
// gravity steps and drops.
type PieceMovedEvent struct {
	Piece Piece
	DX    int
	DY    int
}

func (PieceMovedEvent) engineEvent() {}

// PieceRotatedEvent is emitted after an accepted rotation.
// Kick is the offset that made the rotated shape fit.
type PieceRotatedEvent struct {
	Piece Piece
	Kick  Point
}

func (PieceRotatedEvent) engineEvent() {}

// PieceLockedEvent is emitted when the active piece is written into the grid.
type PieceLockedEvent struct {
	Piece Piece
}

func (PieceLockedEvent) engineEvent() {}

// LinesClearedEvent carries the rows removed by a lock, for clear animations.
type LinesClearedEvent struct {
	Count  int
	Rows   []int
	Points int
}

func (LinesClearedEvent) engineEvent() {}

// LevelUpEvent is emitted when cleared lines raise the level.
type LevelUpEvent struct {
	Level    int
	Interval time.Duration
}

func (LevelUpEvent) engineEvent() {}

// PieceHeldEvent is emitted after a hold. Held is the type now in the hold slot.
type PieceHeldEvent struct {
	Held   PieceType
	Active Piece
}

func (PieceHeldEvent) engineEvent() {}

// PausedEvent is emitted when gravity is suspended by TogglePause.
type PausedEvent struct{}

func (PausedEvent) engineEvent() {}

// ResumedEvent is emitted when TogglePause resumes play.
type ResumedEvent struct{}

func (ResumedEvent) engineEvent() {}

// GameOverEvent is emitted when a new piece cannot enter the grid.
type GameOverEvent struct {
	Score int
	Level int
	Lines int
}

func (GameOverEvent) engineEvent() {}
