package engine

import "time"

// lineClearPoints is the base award for clearing 0..4 lines at once.
var lineClearPoints = [...]int{0, 100, 300, 500, 800}

// Drop awards per cell.
const (
	SoftDropPoints = 1
	HardDropPoints = 2
)

// LineClearScore returns the points for clearing n lines at the given level.
// The level is the one in effect before the clear is counted.
func LineClearScore(n, level int) int {
	if n <= 0 {
		return 0
	}
	if n >= len(lineClearPoints) {
		n = len(lineClearPoints) - 1
	}
	return lineClearPoints[n] * level
}

// Timing holds the gravity and leveling parameters of a session.
type Timing struct {
	BaseInterval   time.Duration // Gravity interval at level 1
	IntervalStep   time.Duration // Reduction per level
	MinInterval    time.Duration // Floor for the interval
	LinesPerLevel  int           // Cleared lines needed per level
	LineClearDelay time.Duration // Pause before the next spawn after a clear
}

// DefaultTiming returns 1000ms gravity at level 1, 100ms faster per level
// down to 100ms, a level every 10 lines and a 300ms clear delay.
func DefaultTiming() Timing {
	return Timing{
		BaseInterval:   1000 * time.Millisecond,
		IntervalStep:   100 * time.Millisecond,
		MinInterval:    100 * time.Millisecond,
		LinesPerLevel:  10,
		LineClearDelay: 300 * time.Millisecond,
	}
}

// LevelForLines returns floor(lines/perLevel)+1.
func LevelForLines(lines, perLevel int) int {
	if perLevel <= 0 {
		perLevel = 10
	}
	if lines < 0 {
		lines = 0
	}
	return lines/perLevel + 1
}

// GravityInterval returns max(min, base - (level-1)*step).
func GravityInterval(level int, t Timing) time.Duration {
	if level < 1 {
		level = 1
	}
	interval := t.BaseInterval - time.Duration(level-1)*t.IntervalStep
	return max(interval, t.MinInterval)
}
