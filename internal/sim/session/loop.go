package session

import (
	"context"
	"encoding/json"
	"time"

	"beltforge/internal/protocol"
)

// Run drives the lockstep loop: joins and leaves are drained into pending
// queues and applied at the next step, so every participant observes the
// same tick boundaries.
func (s *Session) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(s.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingJoins []JoinRequest
	var pendingLeaves []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case req := <-s.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-s.leave:
			pendingLeaves = append(pendingLeaves, id)
		case <-ticker.C:
			s.step(pendingJoins, pendingLeaves)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
		}
	}
}

func (s *Session) Stop() { close(s.stop) }

// StepOnce advances the session by a single tick with the same ordering
// semantics as Run. For tests and replays.
func (s *Session) StepOnce(joins []JoinRequest, leaves []string) uint64 {
	s.step(joins, leaves)
	return s.tick.Load()
}

func (s *Session) step(joins []JoinRequest, leaves []string) {
	for _, req := range joins {
		s.handleJoin(req)
	}
	for _, id := range leaves {
		s.handleLeave(id)
	}

	now := s.tick.Add(1)

	// Tick handlers run to completion inside the step; nothing else is
	// processed until they return.
	for _, h := range s.handlers {
		h(now)
	}

	b, err := json.Marshal(protocol.TickMsg{
		Type:         protocol.TypeTick,
		Tick:         now,
		Participants: len(s.participants),
	})
	if err == nil {
		s.broadcast(b)
	}
}
