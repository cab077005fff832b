package scenario

import (
	"testing"

	"beltforge/internal/blueprint"
	"beltforge/internal/sim/session"
	"beltforge/internal/sim/surface"
)

type recordingSink struct {
	names []string
	ticks []uint64
}

func (r *recordingSink) Save(name string, tick uint64, surf *surface.Surface) error {
	r.names = append(r.names, name)
	r.ticks = append(r.ticks, tick)
	return nil
}

func encodePayload(t *testing.T, specs ...blueprint.EntitySpec) string {
	t.Helper()
	payload, err := blueprint.Encode(&blueprint.Blueprint{
		Item:     "blueprint",
		Version:  1,
		Entities: specs,
	})
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	return payload
}

func minimalPayload(t *testing.T) string {
	t.Helper()
	return encodePayload(t, blueprint.EntitySpec{
		EntityNumber: 1,
		Name:         "transport-belt",
		Position:     blueprint.Pos{X: 0.5, Y: 0.5},
	})
}

func joinReq(name string) session.JoinRequest {
	return session.JoinRequest{Name: name, Out: make(chan []byte, 64)}
}

// newTestRig wires a session, a recording save sink and a scheduler for the
// given config, with the scheduler registered as the tick handler.
func newTestRig(t *testing.T, cfg RunConfig) (*session.Session, *Scheduler, *recordingSink) {
	t.Helper()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	sink := &recordingSink{}
	sess := session.New(session.Config{ID: "test"}, sink, nil)
	sched := NewScheduler(cfg, sess, nil)
	sess.OnTick(sched.HandleTick)
	return sess, sched, sink
}

func TestScheduler_SingleParticipantNeverQualifies(t *testing.T) {
	sess, sched, sink := newTestRig(t, RunConfig{Blueprint: minimalPayload(t), SaveTicks: 5})

	sess.StepOnce([]session.JoinRequest{joinReq("alice")}, nil)
	for i := 0; i < 50; i++ {
		sess.StepOnce(nil, nil)
	}

	if sched.Started() {
		t.Fatalf("deployment started in a single-participant session")
	}
	if len(sink.names) != 0 {
		t.Fatalf("save fired in a single-participant session")
	}
	if got := len(sess.Surface().FindEntitiesByName("transport-belt")); got != 0 {
		t.Fatalf("entities appeared without deployment: %d", got)
	}
}

func TestScheduler_DeploysOnceOnFirstQualifyingTick(t *testing.T) {
	sess, sched, _ := newTestRig(t, RunConfig{Blueprint: minimalPayload(t)})

	// Two participants join before the first step; tick 1 qualifies.
	sess.StepOnce([]session.JoinRequest{joinReq("alice"), joinReq("bob")}, nil)
	if !sched.Started() {
		t.Fatalf("deployment did not start on the first qualifying tick")
	}
	if got := len(sess.Surface().FindEntitiesByName("transport-belt")); got != 1 {
		t.Fatalf("belt count after deploy: %d, want 1", got)
	}

	// Any number of further ticks never re-deploys.
	for i := 0; i < 20; i++ {
		sess.StepOnce(nil, nil)
	}
	if got := len(sess.Surface().FindEntitiesByName("transport-belt")); got != 1 {
		t.Fatalf("belt count after extra ticks: %d, want 1", got)
	}
}

func TestScheduler_QualifiesLateWhenSecondParticipantJoins(t *testing.T) {
	sess, sched, sink := newTestRig(t, RunConfig{Blueprint: minimalPayload(t), SaveTicks: 100})

	sess.StepOnce([]session.JoinRequest{joinReq("alice")}, nil)
	for i := 0; i < 9; i++ {
		sess.StepOnce(nil, nil)
	}
	if sched.Started() {
		t.Fatalf("deployment started early")
	}

	// Second participant arrives; tick 11 is the first qualifying tick.
	sess.StepOnce([]session.JoinRequest{joinReq("bob")}, nil)
	if !sched.Started() {
		t.Fatalf("deployment did not start at tick 11")
	}

	// Save threshold counts from the start tick: fires at tick 111.
	for tick := sess.Tick(); tick < 110; tick = sess.StepOnce(nil, nil) {
	}
	if len(sink.names) != 0 {
		t.Fatalf("save fired before the threshold: %v", sink.ticks)
	}
	sess.StepOnce(nil, nil) // tick 111
	if len(sink.names) != 1 || sink.ticks[0] != 111 {
		t.Fatalf("save: %v at %v, want one at 111", sink.names, sink.ticks)
	}
}

func TestScheduler_SaveFiresExactlyOnce(t *testing.T) {
	sess, _, sink := newTestRig(t, RunConfig{Blueprint: minimalPayload(t), SaveTicks: 100, SaveName: "snap"})

	sess.StepOnce([]session.JoinRequest{joinReq("alice"), joinReq("bob")}, nil) // deploy at tick 1

	// Ticks 2..100: elapsed 1..99, below the threshold.
	for i := 0; i < 99; i++ {
		sess.StepOnce(nil, nil)
	}
	if len(sink.names) != 0 {
		t.Fatalf("save fired early at %v", sink.ticks)
	}

	sess.StepOnce(nil, nil) // tick 101, elapsed 100
	if len(sink.names) != 1 || sink.names[0] != "snap" || sink.ticks[0] != 101 {
		t.Fatalf("save: %v at %v, want snap at 101", sink.names, sink.ticks)
	}

	for i := 0; i < 50; i++ {
		sess.StepOnce(nil, nil)
	}
	if len(sink.names) != 1 {
		t.Fatalf("save fired again: %v", sink.ticks)
	}
}

func TestScheduler_ZeroThresholdDisablesSave(t *testing.T) {
	sess, sched, sink := newTestRig(t, RunConfig{Blueprint: minimalPayload(t), SaveTicks: 0})

	sess.StepOnce([]session.JoinRequest{joinReq("alice"), joinReq("bob")}, nil)
	for i := 0; i < 200; i++ {
		sess.StepOnce(nil, nil)
	}
	if !sched.Started() {
		t.Fatalf("deployment should have started")
	}
	if sched.Saved() || len(sink.names) != 0 {
		t.Fatalf("save fired with a zero threshold")
	}
}

func TestScheduler_DecodeFailureDoesNotRetry(t *testing.T) {
	sess, sched, sink := newTestRig(t, RunConfig{Blueprint: "0notavalidpayload", SaveTicks: 10})

	sess.StepOnce([]session.JoinRequest{joinReq("alice"), joinReq("bob")}, nil)
	if !sched.Started() {
		t.Fatalf("a failed deployment still counts as started")
	}

	for i := 0; i < 30; i++ {
		sess.StepOnce(nil, nil)
	}
	// The session keeps running; the save trigger still arms off the
	// recorded start tick.
	if len(sink.names) != 1 || sink.ticks[0] != 11 {
		t.Fatalf("save: %v at %v, want one at 11", sink.names, sink.ticks)
	}
	if got := len(sess.Surface().Ghosts()); got != 0 {
		t.Fatalf("failed decode left %d ghosts", got)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	var cfg RunConfig
	cfg.applyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("empty blueprint must not validate")
	}

	cfg = RunConfig{Blueprint: "0abc", BotCount: -1}
	cfg.applyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("negative bot_count must not validate")
	}

	cfg = RunConfig{Blueprint: "0abc", SaveTicks: -5}
	cfg.applyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("negative save_ticks must not validate")
	}

	cfg = RunConfig{Blueprint: "0abc"}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if cfg.SaveName == "" {
		t.Fatalf("save_name default not applied")
	}
}
