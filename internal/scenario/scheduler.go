package scenario

import (
	"log"

	"beltforge/internal/sim/session"
)

// Scheduler gates the scenario's two one-shot behaviors against the
// session's tick stream. One instance per session; constructed before the
// loop starts and torn down with it. All fields are owned by the loop
// goroutine.
type Scheduler struct {
	cfg    RunConfig
	sess   *session.Session
	engine *Engine
	log    *log.Logger

	started   bool
	saved     bool
	startTick uint64
}

func NewScheduler(cfg RunConfig, sess *session.Session, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		cfg:    cfg,
		sess:   sess,
		engine: NewEngine(cfg, sess, logger),
		log:    logger,
	}
}

// HandleTick is the session tick handler. Ticks in a single-participant
// session are ignored entirely; the first qualifying tick deploys, and the
// save fires once the configured tick budget has elapsed since deployment.
func (s *Scheduler) HandleTick(tick uint64) {
	if !s.sess.Multiplayer() {
		return
	}

	if !s.started {
		// Flag first: deployment must never run twice, even if the engine
		// fails partway through.
		s.started = true
		s.startTick = tick
		s.sess.Printf("deploying blueprint at tick %d", tick)
		if err := s.engine.Deploy(); err != nil {
			s.sess.Printf("blueprint deployment failed: %v", err)
		}
		return
	}

	if s.saved || s.cfg.SaveTicks <= 0 {
		return
	}
	if tick-s.startTick >= uint64(s.cfg.SaveTicks) {
		s.saved = true
		s.sess.RequestSave(s.cfg.SaveName)
	}
}

// Started reports whether deployment has begun. Loop-goroutine only.
func (s *Scheduler) Started() bool { return s.started }

// Saved reports whether the one-shot save has fired. Loop-goroutine only.
func (s *Scheduler) Saved() bool { return s.saved }
