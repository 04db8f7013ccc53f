package race

// Event is a notification emitted by the simulation. Events are queued
// while the simulation is locked and handed out after the tick completes,
// so a slow listener never stalls a frame.
type Event interface {
	raceEvent()
}

// Listener receives events after each tick. Implementations must not call
// back into the Sim that delivered the event.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// HandleEvent calls f(e).
func (f ListenerFunc) HandleEvent(e Event) { f(e) }

// PhaseChanged is sent on every game phase transition.
type PhaseChanged struct {
	Phase GamePhase
}

func (PhaseChanged) raceEvent() {}

// ScoreChanged is sent when the race clock advances by a tenth of a second.
type ScoreChanged struct {
	Elapsed float64 // Seconds since Running began
}

func (ScoreChanged) raceEvent() {}

// LaneChangeBlocked is sent when a lane change is refused.
type LaneChangeBlocked struct {
	ActorID  int
	From, To int
}

func (LaneChangeBlocked) raceEvent() {}

// LaneChangeGranted is sent when a lane change starts.
type LaneChangeGranted struct {
	ActorID  int
	From, To int
	Slowed   []int // Opponents slowed to make room
}

func (LaneChangeGranted) raceEvent() {}

// PowerUpCollected is sent when the player picks up a power-up.
type PowerUpCollected struct {
	PowerUpID int
	Lane      int
	Speed     float64 // Player speed after the boost
}

func (PowerUpCollected) raceEvent() {}

// ActorPhaseChanged is sent when a runner's animation state changes.
type ActorPhaseChanged struct {
	ActorID int
	Kind    Kind
	Phase   RunnerPhase
}

func (ActorPhaseChanged) raceEvent() {}

// RaceFinished is sent once when the player crosses the finish line.
type RaceFinished struct {
	Place   int
	Elapsed float64
}

func (RaceFinished) raceEvent() {}

// GameOver is sent once when the chaser catches the player.
type GameOver struct {
	Elapsed  float64
	Distance float64 // Distance the player covered
}

func (GameOver) raceEvent() {}

// Countdown is sent for each countdown step: 3, 2, 1 and 0 for "go".
type Countdown struct {
	Remaining int
}

func (Countdown) raceEvent() {}

// TutorialShown is sent when the first-play tutorial overlay appears.
type TutorialShown struct{}

func (TutorialShown) raceEvent() {}

// TutorialDismissed is sent when the tutorial overlay goes away.
type TutorialDismissed struct {
	ByPlayer bool // False when it timed out
}

func (TutorialDismissed) raceEvent() {}
