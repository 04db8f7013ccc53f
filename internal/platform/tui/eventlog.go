package tui

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pursuit-racer/internal/race"
)

// EventLogger writes race events to a structured logger. Race outcomes are
// logged at info level, everything else at debug.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger creates an EventLogger. A nil logger uses the default one.
func NewEventLogger(logger *log.Logger) *EventLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &EventLogger{logger: logger}
}

// HandleEvent implements race.Listener.
func (l *EventLogger) HandleEvent(e race.Event) {
	switch e := e.(type) {
	case race.PhaseChanged:
		l.logger.Debug("phase changed", "phase", e.Phase)
	case race.Countdown:
		l.logger.Debug("countdown", "remaining", e.Remaining)
	case race.LaneChangeGranted:
		l.logger.Debug("lane change", "actor", e.ActorID, "from", e.From, "to", e.To, "slowed", e.Slowed)
	case race.LaneChangeBlocked:
		l.logger.Debug("lane change blocked", "actor", e.ActorID, "from", e.From, "to", e.To)
	case race.PowerUpCollected:
		l.logger.Debug("power-up", "id", e.PowerUpID, "lane", e.Lane, "speed", e.Speed)
	case race.ActorPhaseChanged:
		l.logger.Debug("actor phase", "actor", e.ActorID, "kind", e.Kind, "phase", e.Phase)
	case race.TutorialShown:
		l.logger.Debug("tutorial shown")
	case race.TutorialDismissed:
		l.logger.Debug("tutorial dismissed", "by_player", e.ByPlayer)
	case race.RaceFinished:
		l.logger.Info("race finished", "place", e.Place, "time", e.Elapsed)
	case race.GameOver:
		l.logger.Info("caught", "time", e.Elapsed, "distance", e.Distance)
	}
}
