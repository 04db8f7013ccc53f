package race

import "math"

// ActorState is a read-only copy of an actor.
type ActorState struct {
	ID     int
	Kind   Kind
	Name   string
	X, Y   float64
	VX, VY float64
	Lane   int
	Radius float64
	Phase  RunnerPhase
	Picked bool
	Pickup float64
	Slowed bool
}

// Snapshot is an immutable view of the race published after every
// mutation. Renderers read it without taking the simulation lock.
type Snapshot struct {
	Tick            uint64
	Phase           GamePhase
	Elapsed         float64
	Place           int
	Started         bool
	ChaserEntered   bool
	TutorialVisible bool

	CameraY   float64
	LookAhead float64
	Zoom      float64

	Lanes      int
	LaneWidth  float64
	FinishY    float64
	ViewHeight float64

	PlayerID int
	ChaserID int
	Actors   []ActorState
}

// publish swaps in a fresh snapshot. Called with the lock held.
func (s *Sim) publish() {
	snap := &Snapshot{
		Tick:            s.ticks,
		Phase:           s.phase,
		Elapsed:         s.elapsed,
		Place:           s.place,
		Started:         s.started,
		ChaserEntered:   s.entered,
		TutorialVisible: s.tutorialVisible,

		CameraY:   s.camera.y,
		LookAhead: s.camera.lookAhead,
		Zoom:      s.camera.zoom,

		Lanes:      s.cfg.Track.Lanes,
		LaneWidth:  s.cfg.Track.LaneWidth,
		FinishY:    s.cfg.Track.FinishY,
		ViewHeight: s.cfg.Track.ViewHeight,

		PlayerID: s.player.ID,
		ChaserID: s.chaser.ID,
		Actors:   make([]ActorState, len(s.actors)),
	}
	for i, a := range s.actors {
		snap.Actors[i] = ActorState{
			ID:     a.ID,
			Kind:   a.Kind,
			Name:   a.Name(),
			X:      a.X,
			Y:      a.Y,
			VX:     a.VX,
			VY:     a.VY,
			Lane:   a.Lane,
			Radius: a.Radius,
			Phase:  a.Phase,
			Picked: a.Picked,
			Pickup: a.Pickup,
			Slowed: a.slowTask.Active(),
		}
	}
	s.published.Store(snap)
}

// Snapshot returns the most recently published state. The returned value
// must not be modified.
func (s *Sim) Snapshot() *Snapshot {
	return s.published.Load()
}

// Actor returns the actor with the given id.
func (snap *Snapshot) Actor(id int) (ActorState, bool) {
	for _, a := range snap.Actors {
		if a.ID == id {
			return a, true
		}
	}
	return ActorState{}, false
}

// Player returns the player's state.
func (snap *Snapshot) Player() ActorState {
	a, _ := snap.Actor(snap.PlayerID)
	return a
}

// Chaser returns the chaser's state.
func (snap *Snapshot) Chaser() ActorState {
	a, _ := snap.Actor(snap.ChaserID)
	return a
}

// PowerUps returns the number of power-ups on the track.
func (snap *Snapshot) PowerUps() int {
	n := 0
	for _, a := range snap.Actors {
		if a.Kind == KindPowerUp {
			n++
		}
	}
	return n
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Phase) //#nosec G115 -- hash computation
	h = h*31 + math.Float64bits(snap.Elapsed)
	h = h*31 + uint64(snap.Place) //#nosec G115 -- hash computation
	h = h*31 + math.Float64bits(snap.CameraY)
	h = h*31 + math.Float64bits(snap.Zoom)

	for _, a := range snap.Actors {
		h = h*31 + uint64(a.ID)   //#nosec G115 -- hash computation
		h = h*31 + uint64(a.Kind) //#nosec G115 -- hash computation
		h = h*31 + math.Float64bits(a.X)
		h = h*31 + math.Float64bits(a.Y)
		h = h*31 + math.Float64bits(a.VY)
		h = h*31 + uint64(a.Lane)  //#nosec G115 -- hash computation
		h = h*31 + uint64(a.Phase) //#nosec G115 -- hash computation
		if a.Picked {
			h++
		}
	}
	return h
}
