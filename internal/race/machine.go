package race

import "github.com/vovakirdan/pursuit-racer/internal/tween"

// countdownFrom is the first number shown before the start.
const countdownFrom = 3

func (s *Sim) setPhase(p GamePhase) {
	s.phase = p
	s.emit(PhaseChanged{Phase: p})
}

func (s *Sim) setRunnerPhase(a *Actor, p RunnerPhase) {
	if a.Phase == p {
		return
	}
	a.Phase = p
	s.emit(ActorPhaseChanged{ActorID: a.ID, Kind: a.Kind, Phase: p})
}

// runners returns the player followed by the opponents.
func (s *Sim) runners() []*Actor {
	out := make([]*Actor, 0, len(s.opponents)+1)
	out = append(out, s.player)
	return append(out, s.opponents...)
}

func (s *Sim) enterTitle() {
	s.setPhase(PhaseTitle)
	s.after(s.cfg.Timing.Title, s.enterSetup)
}

// enterSetup walks the runners in to their start marks.
func (s *Sim) enterSetup() {
	s.setPhase(PhaseSetup)

	timing := s.cfg.Timing
	for _, r := range s.runners() {
		r := r
		to := r.start.y
		from := to - timing.EntranceDistance
		r.Y = from
		s.setRunnerPhase(r, RunnerEntering)
		r.motion = s.animate(timing.Entrance, func(p float64) {
			r.Y = tween.Lerp(from, to, tween.EaseOutCubic(p))
		}, func() {
			s.setRunnerPhase(r, RunnerStanding)
		})
	}

	s.after(timing.Setup, func() {
		if s.tutorialSeen {
			s.enterReady(0)
			return
		}
		s.showTutorial()
	})
}

func (s *Sim) showTutorial() {
	s.tutorialVisible = true
	s.emit(TutorialShown{})
	s.tutorialTask = s.after(s.cfg.Timing.Tutorial, func() {
		s.dismissTutorial(false)
	})
}

func (s *Sim) dismissTutorial(byPlayer bool) {
	if !s.tutorialVisible {
		return
	}
	s.tutorialVisible = false
	s.tutorialSeen = true
	s.tutorialTask.Cancel()
	s.tutorialTask = nil
	s.emit(TutorialDismissed{ByPlayer: byPlayer})
	s.enterReady(0)
}

// enterReady resets the race and starts the countdown after lead seconds.
func (s *Sim) enterReady(lead float64) {
	s.resetRace()
	s.setPhase(PhaseReady)
	for _, r := range s.runners() {
		s.setRunnerPhase(r, RunnerCrouched)
	}

	if lead > 0 {
		s.after(lead, func() { s.countdown(countdownFrom) })
		return
	}
	s.countdown(countdownFrom)
}

func (s *Sim) countdown(n int) {
	if s.phase != PhaseReady {
		return
	}
	if n == 0 {
		s.startRunning()
		return
	}
	s.emit(Countdown{Remaining: n})
	s.after(s.cfg.Timing.CountdownStep, func() { s.countdown(n - 1) })
}

func (s *Sim) startRunning() {
	s.emit(Countdown{Remaining: 0})
	s.setPhase(PhaseRunning)
	s.elapsed = 0
	s.scoreTenths = 0

	for _, r := range s.runners() {
		s.setRunnerPhase(r, RunnerRunning)
	}
	for _, o := range s.opponents {
		o := o
		o.motion = s.animate(s.cfg.Timing.OpponentRampUp, func(p float64) {
			o.cruise = tween.Lerp(0, o.target, tween.Linear(p))
		}, nil)
	}
}

// resetRace restores every actor, timer and power-up to the start of a race.
func (s *Sim) resetRace() {
	kept := s.actors[:0]
	for _, a := range s.actors {
		if a.Kind == KindPowerUp {
			continue
		}
		a.reset()
		kept = append(kept, a)
	}
	clear(s.actors[len(kept):])
	s.actors = kept
	s.nextID = len(s.actors)

	s.chaser.Phase = RunnerRunning
	s.elapsed = 0
	s.scoreTenths = 0
	s.place = 0
	s.started = false
	s.entered = false
	s.spawner.reset(s.cfg.PowerUps)
	s.camera.reset(s.cfg.Camera, s.player.Y)
}

// stepRunning advances one frame of the race proper.
func (s *Sim) stepRunning(dt float64) {
	s.elapsed += dt
	if tenths := int(s.elapsed * 10); tenths != s.scoreTenths {
		s.scoreTenths = tenths
		s.emit(ScoreChanged{Elapsed: s.elapsed})
	}

	s.updatePlayer(dt)
	for _, o := range s.opponents {
		s.updateOpponent(o)
	}
	s.updateChaser(dt)
	s.integrate(dt)

	s.camera.update(s.cfg.Camera, s.cfg.Player, s.player.VY, s.player.Y, dt)
	s.clampChaser()
	s.resolveSameLane()
	s.checkOpponentFinish()

	s.spawner.update(s, dt)
	s.collectPowerUps()
	s.prunePowerUps()

	// Being caught outranks crossing the line on the same frame
	if s.chaserCatches() {
		s.fail()
		return
	}
	if s.player.Y >= s.cfg.Track.FinishY {
		s.succeed()
	}
}

// stepAftermath keeps the world moving after the race ends so the scripted
// deceleration plays out. Nothing terminal is evaluated.
func (s *Sim) stepAftermath(dt float64) {
	for _, o := range s.opponents {
		s.updateOpponent(o)
	}
	s.integrate(dt)
	s.camera.update(s.cfg.Camera, s.cfg.Player, s.player.VY, s.player.Y, dt)
	s.checkOpponentFinish()
}

// fail ends the race with the player caught. Calling it outside Running is
// a no-op.
func (s *Sim) fail() {
	if s.phase != PhaseRunning {
		return
	}
	s.setPhase(PhaseFail)

	p, c := s.player, s.chaser
	p.VY, c.VY = 0, 0
	s.setRunnerPhase(p, RunnerDying)
	s.after(s.cfg.Timing.Dying, func() {
		if s.phase == PhaseFail {
			s.setRunnerPhase(p, RunnerDead)
		}
	})

	cam := s.cfg.Camera
	fromBaseline := s.camera.baseline
	s.animate(cam.ZoomDuration, func(t float64) {
		e := tween.EaseInOutQuad(t)
		s.camera.zoom = tween.Lerp(1, cam.FailZoom, e)
		s.camera.baseline = tween.Lerp(fromBaseline, 0, e)
	}, nil)

	s.emit(GameOver{Elapsed: s.elapsed, Distance: p.Y - p.start.y})
}

// succeed ends the race with the player across the line. Calling it outside
// Running is a no-op.
func (s *Sim) succeed() {
	if s.phase != PhaseRunning {
		return
	}
	s.place = s.finishingPlace()
	s.setPhase(PhaseSuccess)
	s.emit(RaceFinished{Place: s.place, Elapsed: s.elapsed})

	p, c := s.player, s.chaser
	timing := s.cfg.Timing
	if s.place == 1 {
		s.decelerate(c, timing.WinStop, nil)
		s.decelerate(p, timing.WinStop, func() {
			s.setRunnerPhase(p, RunnerStanding)
		})
		return
	}

	last := s.place == len(s.opponents)+1
	s.decelerate(c, timing.LoseStop, nil)
	s.decelerate(p, timing.LoseStop, func() {
		if last {
			s.setRunnerPhase(p, RunnerCrouched)
			return
		}
		s.setRunnerPhase(p, RunnerStanding)
	})
}

// finishingPlace counts the opponents the player is ahead of.
func (s *Sim) finishingPlace() int {
	ahead := 0
	for _, o := range s.opponents {
		if o.Y < s.player.Y {
			ahead++
		}
	}
	return len(s.opponents) + 1 - ahead
}

// decelerate brings an actor smoothly to a stop.
func (s *Sim) decelerate(a *Actor, seconds float64, done func()) {
	from := a.VY
	a.motion.Cancel()
	a.motion = s.animate(seconds, func(p float64) {
		a.VY = from * (1 - tween.EaseOutQuad(p))
	}, func() {
		a.VY = 0
		if done != nil {
			done()
		}
	})
}
