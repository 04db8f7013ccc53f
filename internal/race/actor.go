package race

import "github.com/vovakirdan/pursuit-racer/internal/tween"

// Kind tags what an actor is. Update logic switches on the tag instead of
// on a type hierarchy.
type Kind int

const (
	KindPlayer Kind = iota
	KindOpponentA
	KindOpponentB
	KindOpponentC
	KindChaser
	KindPowerUp
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindOpponentA:
		return "opponent-a"
	case KindOpponentB:
		return "opponent-b"
	case KindOpponentC:
		return "opponent-c"
	case KindChaser:
		return "chaser"
	case KindPowerUp:
		return "powerup"
	default:
		return "unknown"
	}
}

// IsOpponent reports whether the kind is one of the AI runners.
func (k Kind) IsOpponent() bool {
	return k == KindOpponentA || k == KindOpponentB || k == KindOpponentC
}

// IsRunner reports whether the kind has a RunnerPhase that matters to the
// renderer.
func (k Kind) IsRunner() bool {
	return k == KindPlayer || k.IsOpponent()
}

// RunnerPhase is the animation state of a runner. It is the only signal the
// renderer needs to pick a presentation.
type RunnerPhase int

const (
	RunnerRunning RunnerPhase = iota
	RunnerCrouched
	RunnerEntering
	RunnerShiftingLeft
	RunnerShiftingRight
	RunnerStanding
	RunnerDying
	RunnerDead
)

func (p RunnerPhase) String() string {
	switch p {
	case RunnerRunning:
		return "running"
	case RunnerCrouched:
		return "crouched"
	case RunnerEntering:
		return "entering"
	case RunnerShiftingLeft:
		return "shifting-left"
	case RunnerShiftingRight:
		return "shifting-right"
	case RunnerStanding:
		return "standing"
	case RunnerDying:
		return "dying"
	case RunnerDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Shifting reports whether the runner is mid lane change.
func (p RunnerPhase) Shifting() bool {
	return p == RunnerShiftingLeft || p == RunnerShiftingRight
}

// Actor is the single representation of everything on the track.
type Actor struct {
	ID     int
	Kind   Kind
	X, Y   float64 // World position
	VX, VY float64 // World units per second
	Lane   int
	Radius float64
	Phase  RunnerPhase

	// Power-ups only
	Picked  bool
	Pickup  float64 // Pickup animation progress in [0, 1]
	removed bool

	// Opponents only
	name       string
	target     float64 // Cruising speed
	cruise     float64 // Current ramped speed before slowdowns
	speedScale float64
	finished   bool

	start    actorStart
	laneTask *tween.Handle // The single lane-change slot
	slowTask *tween.Handle
	motion   *tween.Handle // Ramp, entrance or finish deceleration
}

// actorStart holds the values an actor is reset to on every race start.
type actorStart struct {
	x, y float64
	lane int
}

// Name returns the display name of an opponent, or the kind otherwise.
func (a *Actor) Name() string {
	if a.name != "" {
		return a.name
	}
	return a.Kind.String()
}

// cancelTasks drops any tween bound to this actor.
func (a *Actor) cancelTasks() {
	a.laneTask.Cancel()
	a.slowTask.Cancel()
	a.motion.Cancel()
	a.laneTask, a.slowTask, a.motion = nil, nil, nil
}

// reset restores the start-of-race kinematics.
func (a *Actor) reset() {
	a.cancelTasks()
	a.X, a.Y = a.start.x, a.start.y
	a.VX, a.VY = 0, 0
	a.Lane = a.start.lane
	a.cruise = 0
	a.speedScale = 1
	a.finished = false
}
