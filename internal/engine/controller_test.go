package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Indices into PieceTypes for seqRandom.
const (
	seqI = 0
	seqJ = 1
	seqO = 3
	seqS = 4
	seqT = 5
)

type recorder struct {
	events []Event
	snaps  []Snapshot
}

func (r *recorder) listen(ev Event, snap Snapshot) {
	r.events = append(r.events, ev)
	r.snaps = append(r.snaps, snap)
}

func (r *recorder) reset() {
	r.events = nil
	r.snaps = nil
}

func newTestController(t *testing.T, seq ...int) (*Controller, *VirtualScheduler, *recorder) {
	t.Helper()
	sched := NewVirtualScheduler()
	rec := &recorder{}
	c := NewController(Options{
		Scheduler: sched,
		Random:    &seqRandom{seq: seq},
		Listener:  rec.listen,
	})
	return c, sched, rec
}

func (p Piece) withPos(pos Point) Piece {
	p.Pos = pos
	return p
}

// setActive replaces the active piece, keeping the ghost consistent.
func setActive(c *Controller, p Piece) {
	c.active = &p
	c.updateGhost()
}

func TestNewControllerIsIdle(t *testing.T) {
	c, sched, _ := newTestController(t, seqI)

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.Playing)
	assert.Nil(t, snap.Active)
	assert.Equal(t, 1, snap.Level)
	assert.Equal(t, time.Second, snap.Interval)
	assert.Zero(t, sched.Pending())

	assert.False(t, c.MoveLeft())
	assert.False(t, c.Rotate())
	assert.False(t, c.Hold())
	assert.False(t, c.TogglePause())
	_, ok := c.HardDrop()
	assert.False(t, ok)
}

func TestNewControllerRequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { NewController(Options{Random: &seqRandom{seq: []int{0}}}) })
	assert.Panics(t, func() { NewController(Options{Scheduler: NewVirtualScheduler()}) })
}

func TestStartSpawnsActiveAndNext(t *testing.T) {
	c, sched, rec := newTestController(t, seqI, seqT)

	require.True(t, c.Start())
	assert.False(t, c.Start(), "second Start while playing is ignored")

	snap := c.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	require.NotNil(t, snap.Active)
	require.NotNil(t, snap.Next)
	assert.Equal(t, PieceI, snap.Active.Type)
	assert.Equal(t, Point{X: 3, Y: 0}, snap.Active.Pos)
	assert.Equal(t, PieceT, snap.Next.Type)
	require.NotNil(t, snap.Ghost)
	assert.Equal(t, 18, snap.Ghost.Pos.Y)
	assert.True(t, snap.CanHold)
	assert.Equal(t, 1, sched.Pending(), "gravity timer running")

	require.Len(t, rec.events, 2)
	assert.IsType(t, GameStartedEvent{}, rec.events[0])
	assert.IsType(t, PieceSpawnedEvent{}, rec.events[1])
}

func TestGravityMovesPieceDown(t *testing.T) {
	c, sched, _ := newTestController(t, seqO)
	c.Start()

	sched.Advance(999 * time.Millisecond)
	p, _ := c.Active()
	assert.Equal(t, 0, p.Pos.Y)

	sched.Advance(time.Millisecond)
	p, _ = c.Active()
	assert.Equal(t, 1, p.Pos.Y)

	sched.Advance(3 * time.Second)
	p, _ = c.Active()
	assert.Equal(t, 4, p.Pos.Y)
}

func TestGravityLocksResting(t *testing.T) {
	c, sched, _ := newTestController(t, seqO)
	c.Start()

	// 18 rows to the floor, then one more tick to lock.
	sched.Advance(19 * time.Second)

	assert.Equal(t, PieceO, c.grid.Cell(4, 19))
	assert.Equal(t, PieceO, c.grid.Cell(5, 18))
	p, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, 0, p.Pos.Y, "next piece spawned at the top")
	assert.Equal(t, 0, c.Score(), "gravity awards no points")
}

func TestMoveBlockedLeavesState(t *testing.T) {
	c, _, rec := newTestController(t, seqO)
	c.Start()

	for i := 0; i < 4; i++ {
		require.True(t, c.MoveLeft())
	}
	rec.reset()
	before := c.Snapshot()

	assert.False(t, c.MoveLeft())
	assert.Equal(t, before, c.Snapshot())
	assert.Empty(t, rec.events, "rejected action emits nothing")

	assert.True(t, c.MoveRight())
	p, _ := c.Active()
	assert.Equal(t, 1, p.Pos.X)
}

func TestSoftDropScoresOnePoint(t *testing.T) {
	c, _, rec := newTestController(t, seqO)
	c.Start()
	rec.reset()

	require.True(t, c.SoftDrop())
	assert.Equal(t, 1, c.Score())
	require.Len(t, rec.snaps, 1)
	assert.Equal(t, 1, rec.snaps[0].Score, "listener sees the updated score")

	c.grid.SetCell(4, 3, PieceZ)
	assert.False(t, c.SoftDrop())
	assert.Equal(t, 1, c.Score())
}

func TestHardDropScoresTwoPerCell(t *testing.T) {
	c, _, _ := newTestController(t, seqI, seqT)
	c.Start()
	// Horizontal I occupies local row 1; a block at row 6 stops it at Y=4.
	c.grid.SetCell(3, 6, PieceZ)

	rows, ok := c.HardDrop()
	require.True(t, ok)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 8, c.Score())

	c2, _, _ := newTestController(t, seqI)
	c2.Start()
	c2.grid.SetCell(3, 7, PieceZ)
	rows, _ = c2.HardDrop()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 10, c2.Score())
}

func TestHardDropLocksAtBottom(t *testing.T) {
	c, _, rec := newTestController(t, seqI, seqT)
	c.Start()
	rec.reset()

	rows, ok := c.HardDrop()
	require.True(t, ok)
	assert.Equal(t, 18, rows)
	assert.Equal(t, 36, c.Score())

	for x := 0; x < Width; x++ {
		want := CellEmpty
		if x >= 3 && x <= 6 {
			want = PieceI
		}
		assert.Equal(t, want, c.grid.Cell(x, 19), "cell (%d,19)", x)
	}

	require.Len(t, rec.events, 3)
	assert.IsType(t, PieceMovedEvent{}, rec.events[0])
	assert.IsType(t, PieceLockedEvent{}, rec.events[1])
	spawned, ok := rec.events[2].(PieceSpawnedEvent)
	require.True(t, ok)
	assert.Equal(t, PieceT, spawned.Piece.Type)
}

func TestRotateInPlace(t *testing.T) {
	c, _, rec := newTestController(t, seqT)
	c.Start()
	setActive(c, c.factory.Spawn(PieceT).withPos(Point{X: 4, Y: 5}))
	rec.reset()

	require.True(t, c.Rotate())
	p, _ := c.Active()
	assert.Equal(t, Template(PieceT).RotateCW(), p.Shape)
	assert.Equal(t, Point{X: 4, Y: 5}, p.Pos)

	ev := rec.events[0].(PieceRotatedEvent)
	assert.Equal(t, Point{}, ev.Kick)
}

func TestRotateOIsFixedPoint(t *testing.T) {
	c, _, _ := newTestController(t, seqO)
	c.Start()
	before, _ := c.Active()

	assert.True(t, c.Rotate())
	after, _ := c.Active()
	assert.Equal(t, before, after)
}

// kickGrid blocks the in-place, left, right and upward kicks for a
// horizontal I at (3,5), whose vertical rotation lands in column X+2.
func kickGrid(c *Controller, blockLeft2 bool) {
	for x := 4; x <= 6; x++ {
		c.grid.SetCell(x, 8, PieceZ)
	}
	c.grid.SetCell(5, 4, PieceZ)
	if blockLeft2 {
		c.grid.SetCell(3, 8, PieceZ)
	}
}

func TestRotateKickOrder(t *testing.T) {
	tests := []struct {
		name       string
		blockLeft2 bool
		wantKick   Point
		wantPos    Point
	}{
		{"left two wins over right two", false, Point{X: -2, Y: 0}, Point{X: 1, Y: 5}},
		{"right two when left two is blocked", true, Point{X: 2, Y: 0}, Point{X: 5, Y: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, rec := newTestController(t, seqI)
			c.Start()
			kickGrid(c, tt.blockLeft2)
			setActive(c, c.factory.Spawn(PieceI).withPos(Point{X: 3, Y: 5}))
			rec.reset()

			require.True(t, c.Rotate())
			p, _ := c.Active()
			assert.Equal(t, tt.wantPos, p.Pos)
			assert.Equal(t, Template(PieceI).RotateCW(), p.Shape)
			require.Len(t, rec.events, 1)
			assert.Equal(t, tt.wantKick, rec.events[0].(PieceRotatedEvent).Kick)
		})
	}
}

func TestRotateRejectedWhenNoKickFits(t *testing.T) {
	c, _, rec := newTestController(t, seqI)
	c.Start()
	kickGrid(c, true)
	c.grid.SetCell(7, 8, PieceZ)
	start := c.factory.Spawn(PieceI).withPos(Point{X: 3, Y: 5})
	setActive(c, start)
	rec.reset()

	assert.False(t, c.Rotate())
	p, _ := c.Active()
	assert.Equal(t, start, p)
	assert.Empty(t, rec.events)
}

func TestKickOffsetsOrder(t *testing.T) {
	assert.Equal(t, []Point{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {-2, 0}, {2, 0}}, KickOffsets())
}

func TestHoldFirstThenSwap(t *testing.T) {
	c, _, _ := newTestController(t, seqT, seqJ, seqS, seqO)
	c.Start()

	require.True(t, c.Rotate())
	require.True(t, c.Hold())

	snap := c.Snapshot()
	assert.Equal(t, PieceT, snap.Held)
	assert.Equal(t, PieceJ, snap.Active.Type)
	assert.Equal(t, PieceS, snap.Next.Type)
	assert.False(t, snap.CanHold)

	assert.False(t, c.Hold(), "only one hold per piece")

	_, ok := c.HardDrop()
	require.True(t, ok)
	assert.True(t, c.CanHold())
	p, _ := c.Active()
	assert.Equal(t, PieceS, p.Type)

	require.True(t, c.Hold())
	p, _ = c.Active()
	assert.Equal(t, PieceT, p.Type)
	assert.Equal(t, Template(PieceT), p.Shape, "held piece returns in default orientation")
	assert.Equal(t, SpawnPosition(Template(PieceT)), p.Pos)
	assert.Equal(t, PieceS, c.Held())
	assert.False(t, c.CanHold())
}

func TestHoldSwapBlockedEndsGame(t *testing.T) {
	c, _, rec := newTestController(t, seqT, seqO)
	c.Start()
	require.True(t, c.Hold())
	_, _ = c.HardDrop()

	// Park an O away from the spawn area and block the T spawn cells.
	setActive(c, c.factory.Spawn(PieceO).withPos(Point{X: 0, Y: 10}))
	c.grid.SetCell(3, 1, PieceZ)
	rec.reset()

	require.True(t, c.Hold())
	assert.Equal(t, StateGameOver, c.State())
	require.NotEmpty(t, rec.events)
	assert.IsType(t, GameOverEvent{}, rec.events[len(rec.events)-1])
}

func TestLineClearScoresAtPreClearLevel(t *testing.T) {
	c, sched, rec := newTestController(t, seqO)
	c.Start()
	c.level = 3
	c.lines = 20
	fillRow(c.grid, 19, 4, 5)
	fillRow(c.grid, 18, 4, 5)
	rec.reset()

	rows, ok := c.HardDrop()
	require.True(t, ok)
	assert.Equal(t, 36+900, c.Score())
	assert.Equal(t, 18, rows)
	assert.Equal(t, 22, c.Lines())
	assert.Equal(t, 3, c.Level())
	assert.Zero(t, c.grid.FilledCount())

	snap := c.Snapshot()
	assert.Nil(t, snap.Active, "spawn is deferred after a clear")
	assert.Equal(t, []int{19, 18}, snap.ClearingRows)

	var cleared *LinesClearedEvent
	for _, ev := range rec.events {
		if e, ok := ev.(LinesClearedEvent); ok {
			cleared = &e
		}
	}
	require.NotNil(t, cleared)
	assert.Equal(t, 2, cleared.Count)
	assert.Equal(t, 900, cleared.Points)

	assert.False(t, c.MoveLeft(), "no piece to move during the clear delay")

	sched.Advance(299 * time.Millisecond)
	_, ok = c.Active()
	assert.False(t, ok)

	sched.Advance(time.Millisecond)
	_, ok = c.Active()
	assert.True(t, ok)
	assert.Empty(t, c.Snapshot().ClearingRows)
}

func TestLevelUpSpeedsGravity(t *testing.T) {
	c, _, rec := newTestController(t, seqO)
	c.Start()
	c.lines = 8
	fillRow(c.grid, 19, 4, 5)
	fillRow(c.grid, 18, 4, 5)
	rec.reset()

	c.HardDrop()
	assert.Equal(t, 10, c.Lines())
	assert.Equal(t, 2, c.Level())
	assert.Equal(t, 900*time.Millisecond, c.Interval())
	assert.Equal(t, 36+300, c.Score(), "points use the level before the clear")

	var levelUp *LevelUpEvent
	for _, ev := range rec.events {
		if e, ok := ev.(LevelUpEvent); ok {
			levelUp = &e
		}
	}
	require.NotNil(t, levelUp)
	assert.Equal(t, 2, levelUp.Level)
	assert.Equal(t, 900*time.Millisecond, levelUp.Interval)
}

func TestGravityRestartsAtNewInterval(t *testing.T) {
	c, sched, _ := newTestController(t, seqO)
	c.Start()
	c.lines = 9
	fillRow(c.grid, 19, 4, 5)
	c.HardDrop()
	require.Equal(t, 2, c.Level())

	sched.Advance(300 * time.Millisecond)
	p, ok := c.Active()
	require.True(t, ok)
	require.Equal(t, 0, p.Pos.Y)

	sched.Advance(899 * time.Millisecond)
	p, _ = c.Active()
	assert.Equal(t, 0, p.Pos.Y)
	sched.Advance(time.Millisecond)
	p, _ = c.Active()
	assert.Equal(t, 1, p.Pos.Y)
}

func TestPauseStopsGravityAndActions(t *testing.T) {
	c, sched, _ := newTestController(t, seqO)
	c.Start()

	require.True(t, c.TogglePause())
	snap := c.Snapshot()
	assert.True(t, snap.Paused)
	assert.True(t, snap.Playing)
	assert.Zero(t, sched.Pending())

	sched.Advance(5 * time.Second)
	p, _ := c.Active()
	assert.Equal(t, 0, p.Pos.Y)
	assert.False(t, c.MoveLeft())
	assert.False(t, c.SoftDrop())
	assert.False(t, c.Hold())

	require.True(t, c.TogglePause())
	assert.Equal(t, StatePlaying, c.State())
	sched.Advance(time.Second)
	p, _ = c.Active()
	assert.Equal(t, 1, p.Pos.Y)
}

func TestPauseDuringClearDelayDefersSpawn(t *testing.T) {
	c, sched, _ := newTestController(t, seqO)
	c.Start()
	fillRow(c.grid, 19, 4, 5)
	c.HardDrop()

	require.True(t, c.TogglePause())
	sched.Advance(time.Second)
	_, ok := c.Active()
	assert.False(t, ok, "no spawn while paused")

	require.True(t, c.TogglePause())
	_, ok = c.Active()
	assert.True(t, ok, "resume completes the pending spawn")
	assert.Equal(t, 1, sched.Pending(), "only gravity is scheduled")
}

func TestGameOverWhenSpawnBlocked(t *testing.T) {
	c, sched, rec := newTestController(t, seqO)
	c.Start()

	// Ten O pieces fill columns 4-5 to the top; the eleventh cannot enter.
	for i := 0; i < 10; i++ {
		_, ok := c.HardDrop()
		require.True(t, ok, "drop %d", i)
	}

	assert.Equal(t, StateGameOver, c.State())
	assert.Equal(t, 40, c.grid.FilledCount(), "blocked piece is not locked")
	assert.Zero(t, sched.Pending())

	last := rec.events[len(rec.events)-1]
	over, ok := last.(GameOverEvent)
	require.True(t, ok)
	assert.Equal(t, c.Score(), over.Score)

	_, ok = c.HardDrop()
	assert.False(t, ok)
	assert.False(t, c.TogglePause())

	require.True(t, c.Start(), "restart after game over")
	assert.Zero(t, c.grid.FilledCount())
	assert.Zero(t, c.Score())
	assert.Equal(t, StatePlaying, c.State())
}

func TestResetReturnsToIdle(t *testing.T) {
	c, sched, _ := newTestController(t, seqT)
	c.Start()
	c.SoftDrop()

	c.Reset()
	assert.Equal(t, StateIdle, c.State())
	assert.Zero(t, c.Score())
	assert.Zero(t, sched.Pending())
	_, ok := c.Active()
	assert.False(t, ok)
	for _, n := range c.Stats() {
		assert.Zero(t, n)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	c, _, _ := newTestController(t, seqI)
	c.Start()

	snap := c.Snapshot()
	snap.Grid[19][0] = PieceZ
	snap.Active.Pos.X = 0
	snap.Stats[PieceI] = 42

	assert.Equal(t, CellEmpty, c.grid.Cell(0, 19))
	p, _ := c.Active()
	assert.Equal(t, 3, p.Pos.X)
	assert.Equal(t, 2, c.Stats()[PieceI])
}

func TestSetListenerReplacesAndDisables(t *testing.T) {
	c, _, rec := newTestController(t, seqT)
	require.True(t, c.Start())
	require.NotEmpty(t, rec.events)

	c.SetListener(nil)
	rec.reset()
	require.True(t, c.MoveLeft())
	assert.Empty(t, rec.events, "nil listener disables notifications")

	other := &recorder{}
	c.SetListener(other.listen)
	require.True(t, c.MoveRight())
	require.Len(t, other.events, 1)
	assert.IsType(t, PieceMovedEvent{}, other.events[0])
	assert.Empty(t, rec.events)
}
