// Package race implements the pursuit race simulation.
//
// A Sim advances the whole race deterministically once per Tick: the phase
// state machine, tween-driven transitions, runner kinematics, lane conflict
// resolution, power-up spawning and the follow camera. It has no rendering,
// audio or persistence; those collaborators read Snapshots and consume
// Events.
package race

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/pursuit-racer/internal/config"
	"github.com/vovakirdan/pursuit-racer/internal/core"
	"github.com/vovakirdan/pursuit-racer/internal/level"
	"github.com/vovakirdan/pursuit-racer/internal/tween"
)

// ErrReplayNotAllowed is returned by Replay outside Success and Fail.
var ErrReplayNotAllowed = errors.New("race: replay is only allowed after the race ends")

// GamePhase is the top-level state of a race.
type GamePhase int

const (
	PhaseTitle GamePhase = iota
	PhaseSetup
	PhaseReady
	PhaseRunning
	PhaseSuccess
	PhaseFail
)

func (p GamePhase) String() string {
	switch p {
	case PhaseTitle:
		return "title"
	case PhaseSetup:
		return "setup"
	case PhaseReady:
		return "ready"
	case PhaseRunning:
		return "running"
	case PhaseSuccess:
		return "success"
	case PhaseFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Terminal reports whether the race has ended.
func (p GamePhase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseFail
}

// StepResult is what a single Tick produced.
type StepResult struct {
	Phase  GamePhase
	Score  float64
	Events []Event
}

// Option configures a Sim.
type Option func(*Sim)

// WithListener registers a listener that receives every event after the
// tick that produced it.
func WithListener(l Listener) Option {
	return func(s *Sim) {
		s.listener = l
	}
}

// WithLevel sets the power-up layout. A nil or empty level disables
// spawning.
func WithLevel(l *level.Level) Option {
	return func(s *Sim) {
		s.level = l
	}
}

// WithoutTutorial skips the first-play tutorial overlay.
func WithoutTutorial() Option {
	return func(s *Sim) {
		s.tutorialSeen = true
	}
}

// Sim is the race simulation. Tick, Replay and the input methods are
// serialized by a mutex; Snapshot never blocks and may be called from any
// goroutine.
type Sim struct {
	mu sync.Mutex

	cfg        config.RaceConfig
	level      *level.Level
	difficulty *config.DifficultyManager
	sched      *tween.Scheduler
	listener   Listener

	actors    []*Actor
	player    *Actor
	chaser    *Actor
	opponents []*Actor
	nextID    int

	phase       GamePhase
	ticks       uint64
	elapsed     float64
	scoreTenths int
	place       int
	started     bool // Player reached minimum speed this race
	entered     bool // Chaser reached the camera window this race

	tutorialSeen    bool
	tutorialVisible bool
	tutorialTask    *tween.Handle

	camera  camera
	spawner spawner

	outbox    []Event
	published atomic.Pointer[Snapshot]
}

// New creates a race in the Title phase. cfg must be valid; New returns the
// result of cfg.Validate otherwise.
func New(cfg config.RaceConfig, opts ...Option) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sim{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		sched:      tween.NewScheduler(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.buildActors()
	s.resetRace()
	s.enterTitle()
	s.publish()
	return s, nil
}

// buildActors creates the player, the opponents and the chaser.
func (s *Sim) buildActors() {
	track := s.cfg.Track
	center := track.CenterLane()

	s.player = s.addActor(KindPlayer, center, 0, s.cfg.Player.Radius)

	kinds := []Kind{KindOpponentA, KindOpponentB, KindOpponentC}
	for i, oc := range s.cfg.Opponents {
		o := s.addActor(kinds[i%len(kinds)], oc.Lane, oc.StartY, oc.Radius)
		o.name = oc.Name
		o.target = oc.Speed
		s.opponents = append(s.opponents, o)
	}

	s.chaser = s.addActor(KindChaser, center, -s.cfg.Chaser.StartGap, s.cfg.Chaser.Radius)
}

func (s *Sim) addActor(kind Kind, lane int, y, radius float64) *Actor {
	a := &Actor{
		ID:         s.nextID,
		Kind:       kind,
		Lane:       lane,
		Radius:     radius,
		Phase:      RunnerStanding,
		speedScale: 1,
		start: actorStart{
			x:    s.cfg.Track.LaneX(lane),
			y:    y,
			lane: lane,
		},
	}
	a.X, a.Y = a.start.x, a.start.y
	s.nextID++
	s.actors = append(s.actors, a)
	return a
}

// Tick advances the race by dt. Negative durations count as zero. Events
// produced since the previous Tick are returned and, if a listener is
// registered, delivered to it after the simulation is unlocked.
func (s *Sim) Tick(dt time.Duration) StepResult {
	s.mu.Lock()
	s.step(max(dt.Seconds(), 0))
	s.ticks++
	s.publish()
	res := StepResult{
		Phase:  s.phase,
		Score:  s.elapsed,
		Events: s.drain(),
	}
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		for _, e := range res.Events {
			listener.HandleEvent(e)
		}
	}
	return res
}

// step runs one frame. Tween callbacks run first so scripted transitions
// are visible to the phase logic; if a callback changed the phase, the new
// phase starts simulating on the next frame.
func (s *Sim) step(dt float64) {
	phase := s.phase
	s.sched.Tick(dt)
	if s.phase != phase {
		return
	}

	switch s.phase {
	case PhaseRunning:
		s.stepRunning(dt)
	case PhaseSuccess, PhaseFail:
		s.stepAftermath(dt)
	}
}

// Replay restarts the race from Ready. It is only valid after the race has
// ended and must not be called concurrently with Tick.
func (s *Sim) Replay() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.phase.Terminal() {
		return fmt.Errorf("%w: phase is %s", ErrReplayNotAllowed, s.phase)
	}

	s.sched.CancelAll()
	s.enterReady(s.cfg.Timing.ReplayDelay)
	s.publish()
	return nil
}

// TouchDown handles a touch at a world coordinate. While the tutorial is
// showing it dismisses it; during the race it requests a one-lane move
// toward the touched lane. Touches outside the track are ignored.
func (s *Sim) TouchDown(worldX, worldY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tutorialVisible {
		s.dismissTutorial(true)
		s.publish()
		return
	}
	if s.phase != PhaseRunning || math.IsNaN(worldX) || math.IsInf(worldX, 0) {
		return
	}

	track := s.cfg.Track
	rel := math.Round(worldX / track.LaneWidth)
	if math.Abs(rel) > float64(track.Lanes) {
		return
	}
	lane := int(rel) + track.CenterLane()
	if lane < 0 || lane >= track.Lanes || lane == s.player.Lane {
		return
	}
	s.requestLaneChange(s.player, core.Sign(lane-s.player.Lane))
	s.publish()
}

// Shift requests a one-lane move for the player: negative moves left,
// positive moves right.
func (s *Sim) Shift(dir int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRunning || dir == 0 {
		return
	}
	s.requestLaneChange(s.player, core.Sign(dir))
	s.publish()
}

// DismissTutorial hides the tutorial overlay early.
func (s *Sim) DismissTutorial() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tutorialVisible {
		s.dismissTutorial(true)
		s.publish()
	}
}

// Score returns the race time in seconds. It is frozen once the race ends
// and resets on Replay.
func (s *Sim) Score() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Phase returns the current game phase.
func (s *Sim) Phase() GamePhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Place returns the player's finishing place, or 0 before the finish.
func (s *Sim) Place() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.place
}

// Config returns the tunables the race runs with.
func (s *Sim) Config() config.RaceConfig {
	return s.cfg
}

// LevelID returns the id of the power-up layout, or "" when none is set.
func (s *Sim) LevelID() string {
	if s.level == nil {
		return ""
	}
	return s.level.ID
}

// emit queues an event for the end of the tick.
func (s *Sim) emit(e Event) {
	s.outbox = append(s.outbox, e)
}

func (s *Sim) drain() []Event {
	if len(s.outbox) == 0 {
		return nil
	}
	events := s.outbox
	s.outbox = nil
	return events
}

// after runs fn once after the given seconds. A non-positive delay runs fn
// immediately.
func (s *Sim) after(seconds float64, fn func()) *tween.Handle {
	h, err := s.sched.Delay(seconds, fn)
	if err != nil {
		fn()
		return nil
	}
	return h
}

// animate schedules a tween. If the duration is unusable the tween jumps
// straight to its end state.
func (s *Sim) animate(seconds float64, update func(float64), done func()) *tween.Handle {
	h, err := s.sched.Schedule(tween.Task{Duration: seconds, Update: update, Done: done})
	if err != nil {
		if update != nil {
			update(1)
		}
		if done != nil {
			done()
		}
		return nil
	}
	return h
}
