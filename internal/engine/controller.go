package engine

import "time"

// kickOffsets is the ordered wall-kick list tried when a rotation does not
// fit in place. The first offset that fits wins.
var kickOffsets = [...]Point{
	{X: 0, Y: 0},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: -2, Y: 0},
	{X: 2, Y: 0},
}

// KickOffsets returns a copy of the rotation kick list in trial order.
func KickOffsets() []Point {
	return append([]Point(nil), kickOffsets[:]...)
}

// Options configures a Controller.
type Options struct {
	Scheduler Scheduler    // Required: drives gravity and the clear delay
	Random    RandomSource // Required: draws piece types
	Timing    Timing       // Zero value means DefaultTiming()
	Listener  Listener     // Optional
}

// Controller runs one session. It owns the grid, the piece slots, and all
// counters; consumers only see Snapshots and events.
//
// A Controller is not safe for concurrent use. Player actions and scheduler
// callbacks must all arrive on one goroutine, one at a time.
type Controller struct {
	grid     *Grid
	factory  *PieceFactory
	sched    Scheduler
	timing   Timing
	listener Listener

	state   State
	active  *Piece
	ghost   Piece
	next    *Piece
	held    PieceType
	canHold bool

	score    int
	level    int
	lines    int
	interval time.Duration

	gravity      TimerHandle
	spawnTimer   TimerHandle
	pendingSpawn bool
	clearingRows []int
}

// NewController creates an idle controller.
// Panics if opts has no Scheduler or Random source.
func NewController(opts Options) *Controller {
	if opts.Scheduler == nil {
		panic("engine: controller requires a Scheduler")
	}
	if opts.Random == nil {
		panic("engine: controller requires a RandomSource")
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}

	c := &Controller{
		grid:     NewGrid(),
		factory:  NewPieceFactory(opts.Random),
		sched:    opts.Scheduler,
		timing:   opts.Timing,
		listener: opts.Listener,
	}
	c.resetSession()
	return c
}

// SetListener replaces the event listener. nil disables notifications.
func (c *Controller) SetListener(l Listener) {
	c.listener = l
}

// resetSession clears the grid, stats, counters and piece slots and stops
// all timers. The lifecycle state is left to the caller.
func (c *Controller) resetSession() {
	c.stopGravity()
	c.cancelSpawn()

	c.grid.Reset()
	c.factory.ResetStats()

	c.active = nil
	c.ghost = Piece{}
	c.next = nil
	c.held = PieceNone
	c.canHold = true

	c.score = 0
	c.level = 1
	c.lines = 0
	c.interval = GravityInterval(1, c.timing)

	c.pendingSpawn = false
	c.clearingRows = nil
}

// Reset abandons the current session and returns to idle.
func (c *Controller) Reset() {
	c.resetSession()
	c.state = StateIdle
}

// Start begins a new session from idle or game over.
// Returns false if a session is already running (playing or paused).
func (c *Controller) Start() bool {
	if c.state == StatePlaying || c.state == StatePaused {
		return false
	}

	c.resetSession()
	c.state = StatePlaying
	c.emit(GameStartedEvent{})

	c.spawnNext(true)
	if c.state == StatePlaying {
		c.startGravity()
	}
	return true
}

// spawnNext promotes the next piece to active and draws a new next piece.
// If the new active piece does not fit, the session ends without locking it.
func (c *Controller) spawnNext(allowHold bool) {
	c.pendingSpawn = false
	c.clearingRows = nil
	c.spawnTimer = 0

	if c.next == nil {
		p := c.factory.SpawnRandom()
		c.next = &p
	}
	active := *c.next
	next := c.factory.SpawnRandom()
	c.active = &active
	c.next = &next
	c.canHold = allowHold

	if !c.grid.IsValidPlacement(active.Shape, active.Pos, 0, 0) {
		c.ghost = active
		c.gameOver()
		return
	}

	c.updateGhost()
	c.emit(PieceSpawnedEvent{Piece: active, Next: next})
}

func (c *Controller) gameOver() {
	c.stopGravity()
	c.cancelSpawn()
	c.pendingSpawn = false
	c.state = StateGameOver
	c.emit(GameOverEvent{Score: c.score, Level: c.level, Lines: c.lines})
}

// canAct reports whether player actions may touch the active piece.
func (c *Controller) canAct() bool {
	return c.state == StatePlaying && c.active != nil && !c.pendingSpawn
}

// shift moves the active piece by (dx, dy) if the target is valid.
func (c *Controller) shift(dx, dy int) bool {
	if !c.grid.IsValidPlacement(c.active.Shape, c.active.Pos, dx, dy) {
		return false
	}
	c.active.Pos = c.active.Pos.Add(dx, dy)
	c.updateGhost()
	return true
}

// Move translates the active piece. Returns false, leaving the state
// untouched, if the move is blocked or no piece is in play.
func (c *Controller) Move(dx, dy int) bool {
	if !c.canAct() || !c.shift(dx, dy) {
		return false
	}
	c.emit(PieceMovedEvent{Piece: *c.active, DX: dx, DY: dy})
	return true
}

// MoveLeft moves the active piece one column left.
func (c *Controller) MoveLeft() bool { return c.Move(-1, 0) }

// MoveRight moves the active piece one column right.
func (c *Controller) MoveRight() bool { return c.Move(1, 0) }

// SoftDrop moves the active piece down one row, awarding one point.
func (c *Controller) SoftDrop() bool {
	if !c.canAct() || !c.shift(0, 1) {
		return false
	}
	c.score += SoftDropPoints
	c.emit(PieceMovedEvent{Piece: *c.active, DY: 1})
	return true
}

// HardDrop drops the active piece as far as it goes, awarding two points per
// row, and locks it at once. Returns the rows dropped and whether the drop
// was performed at all.
func (c *Controller) HardDrop() (int, bool) {
	if !c.canAct() {
		return 0, false
	}

	rows := 0
	for c.grid.IsValidPlacement(c.active.Shape, c.active.Pos, 0, 1) {
		c.active.Pos.Y++
		c.score += HardDropPoints
		rows++
	}
	if rows > 0 {
		c.updateGhost()
		c.emit(PieceMovedEvent{Piece: *c.active, DY: rows})
	}

	c.lockActive()
	return rows, true
}

// Rotate turns the active piece clockwise, trying each kick offset in order.
// Returns false, leaving the piece as it was, if no offset fits.
func (c *Controller) Rotate() bool {
	if !c.canAct() {
		return false
	}

	candidate := c.factory.Rotate(*c.active)
	for _, kick := range kickOffsets {
		pos := c.active.Pos.Add(kick.X, kick.Y)
		if !c.grid.IsValidPlacement(candidate, pos, 0, 0) {
			continue
		}
		c.active.Shape = candidate
		c.active.Pos = pos
		c.updateGhost()
		c.emit(PieceRotatedEvent{Piece: *c.active, Kick: kick})
		return true
	}
	return false
}

// Hold stashes the active piece's type. The first hold spawns the next piece;
// later holds swap with the held type, which re-enters at the spawn position
// in its default orientation. Only one hold is allowed per spawned piece.
// The swapped-in piece goes through the same validity check as a spawn: if
// it does not fit at the spawn position the session ends.
func (c *Controller) Hold() bool {
	if !c.canAct() || !c.canHold {
		return false
	}

	current := c.active.Type
	if c.held == PieceNone {
		c.held = current
		c.active = nil
		c.spawnNext(false)
		if c.state != StatePlaying {
			return true
		}
	} else {
		swapped := c.factory.Spawn(c.held)
		c.held = current
		c.active = &swapped
		c.canHold = false
		if !c.grid.IsValidPlacement(swapped.Shape, swapped.Pos, 0, 0) {
			c.ghost = swapped
			c.gameOver()
			return true
		}
		c.updateGhost()
	}

	c.emit(PieceHeldEvent{Held: c.held, Active: *c.active})
	return true
}

// TogglePause suspends or resumes gravity. Ignored when no session is running.
func (c *Controller) TogglePause() bool {
	switch c.state {
	case StatePlaying:
		c.state = StatePaused
		c.stopGravity()
		c.cancelSpawn()
		c.emit(PausedEvent{})
		return true

	case StatePaused:
		c.state = StatePlaying
		c.emit(ResumedEvent{})
		if c.pendingSpawn {
			c.spawnNext(true)
		}
		if c.state == StatePlaying {
			c.startGravity()
		}
		return true
	}
	return false
}

// tick is the gravity callback: fall one row or lock.
func (c *Controller) tick() {
	if !c.canAct() {
		return
	}
	if c.shift(0, 1) {
		c.emit(PieceMovedEvent{Piece: *c.active, DY: 1})
		return
	}
	c.lockActive()
}

// lockActive writes the active piece into the grid and resolves line clears.
// Without a clear the next piece spawns immediately; otherwise gravity stops
// and the spawn is deferred by the line-clear delay.
func (c *Controller) lockActive() {
	locked := *c.active
	c.grid.Lock(locked)
	c.active = nil
	c.emit(PieceLockedEvent{Piece: locked})

	n, rows := c.grid.ClearFullLines()
	if n == 0 {
		c.spawnNext(true)
		return
	}

	points := LineClearScore(n, c.level)
	c.score += points
	c.lines += n

	leveledUp := false
	if level := LevelForLines(c.lines, c.timing.LinesPerLevel); level > c.level {
		c.level = level
		c.interval = GravityInterval(level, c.timing)
		leveledUp = true
	}

	c.stopGravity()
	c.pendingSpawn = true
	c.clearingRows = rows

	c.emit(LinesClearedEvent{Count: n, Rows: append([]int(nil), rows...), Points: points})
	if leveledUp {
		c.emit(LevelUpEvent{Level: c.level, Interval: c.interval})
	}

	if c.timing.LineClearDelay <= 0 {
		c.finishClear()
		return
	}
	c.spawnTimer = c.sched.After(c.timing.LineClearDelay, c.finishClear)
}

// finishClear spawns the piece deferred by a line clear and restarts gravity
// at the current interval.
func (c *Controller) finishClear() {
	c.spawnTimer = 0
	if c.state != StatePlaying || !c.pendingSpawn {
		return
	}
	c.spawnNext(true)
	if c.state == StatePlaying {
		c.startGravity()
	}
}

func (c *Controller) updateGhost() {
	if c.active == nil {
		c.ghost = Piece{}
		return
	}
	c.ghost = c.grid.GhostDrop(*c.active)
}

func (c *Controller) startGravity() {
	c.stopGravity()
	c.gravity = c.sched.Start(c.interval, c.tick)
}

func (c *Controller) stopGravity() {
	if c.gravity != 0 {
		c.sched.Cancel(c.gravity)
		c.gravity = 0
	}
}

// cancelSpawn drops a scheduled deferred spawn; pendingSpawn is kept so a
// resume can complete it.
func (c *Controller) cancelSpawn() {
	if c.spawnTimer != 0 {
		c.sched.Cancel(c.spawnTimer)
		c.spawnTimer = 0
	}
}

func (c *Controller) emit(ev Event) {
	if c.listener != nil {
		c.listener(ev, c.Snapshot())
	}
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Score returns the current score.
func (c *Controller) Score() int { return c.score }

// Level returns the current level, starting at 1.
func (c *Controller) Level() int { return c.level }

// Lines returns the total cleared lines.
func (c *Controller) Lines() int { return c.lines }

// Interval returns the current gravity interval.
func (c *Controller) Interval() time.Duration { return c.interval }

// Stats returns a copy of the per-type spawn counters.
func (c *Controller) Stats() map[PieceType]int { return c.factory.Stats() }

// Active returns a copy of the active piece, if any.
func (c *Controller) Active() (Piece, bool) {
	if c.active == nil {
		return Piece{}, false
	}
	return *c.active, true
}

// Held returns the type in the hold slot, or PieceNone.
func (c *Controller) Held() PieceType { return c.held }

// CanHold reports whether the current piece may still be held.
func (c *Controller) CanHold() bool { return c.canHold }
