package session

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync/atomic"

	"beltforge/internal/protocol"
	"beltforge/internal/sim/surface"
)

// SaveSink persists the session state under a save identifier. May be nil
// when persistence is disabled.
type SaveSink interface {
	Save(name string, tick uint64, surf *surface.Surface) error
}

// TickHandler is delivered once per simulation step, synchronously, from
// the session loop. Handlers must not block or yield mid-call.
type TickHandler func(tick uint64)

type Config struct {
	ID          string
	TickRateHz  int
	SurfaceName string
}

func (c *Config) applyDefaults() {
	if c.ID == "" {
		c.ID = "session_1"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 60
	}
	if c.SurfaceName == "" {
		c.SurfaceName = "nauvis"
	}
}

type JoinRequest struct {
	Name string
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
}

type participant struct {
	ID   string
	Name string
	Pos  surface.Pos
	Out  chan []byte
}

// Session is a single-threaded deterministic lockstep host. All state is
// owned by the loop goroutine; participants talk to it through channels.
type Session struct {
	cfg  Config
	log  *log.Logger
	surf *surface.Surface

	tick atomic.Uint64

	participants map[string]*participant
	joinOrder    []string
	handlers     []TickHandler

	nextParticipantNum atomic.Uint64

	join  chan JoinRequest
	leave chan string
	stop  chan struct{}

	saver SaveSink
}

func New(cfg Config, saver SaveSink, logger *log.Logger) *Session {
	cfg.applyDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		cfg:          cfg,
		log:          logger,
		surf:         surface.New(cfg.SurfaceName),
		participants: map[string]*participant{},
		join:         make(chan JoinRequest, 16),
		leave:        make(chan string, 16),
		stop:         make(chan struct{}),
		saver:        saver,
	}
}

func (s *Session) ID() string                { return s.cfg.ID }
func (s *Session) TickRateHz() int           { return s.cfg.TickRateHz }
func (s *Session) Surface() *surface.Surface { return s.surf }
func (s *Session) Tick() uint64              { return s.tick.Load() }

func (s *Session) Join() chan<- JoinRequest { return s.join }
func (s *Session) Leave() chan<- string     { return s.leave }

// OnTick registers a handler. Handlers run in registration order inside the
// step; register everything before Run.
func (s *Session) OnTick(h TickHandler) {
	s.handlers = append(s.handlers, h)
}

// Multiplayer reports whether the session currently has more than one
// participant. Loop-goroutine only.
func (s *Session) Multiplayer() bool {
	return len(s.participants) > 1
}

// AnchorPos is the position of the longest-connected participant, the
// reference point for blueprint stamping.
func (s *Session) AnchorPos() (surface.Pos, bool) {
	if len(s.joinOrder) == 0 {
		return surface.Pos{}, false
	}
	return s.participants[s.joinOrder[0]].Pos, true
}

// Printf logs status text and broadcasts it to all participants. Status
// only; nothing reads it back.
func (s *Session) Printf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	s.log.Printf("%s", text)
	b, err := json.Marshal(protocol.PrintMsg{Type: protocol.TypePrint, Text: text})
	if err != nil {
		return
	}
	s.broadcast(b)
}

// RequestSave hands the surface to the save sink. Persistence failures are
// logged, never propagated into the sim.
func (s *Session) RequestSave(name string) {
	if s.saver == nil {
		s.log.Printf("save %q requested but no save sink configured", name)
		return
	}
	if err := s.saver.Save(name, s.tick.Load(), s.surf); err != nil {
		s.log.Printf("save %q failed: %v", name, err)
		return
	}
	s.log.Printf("saved %q at tick %d", name, s.tick.Load())
}

func (s *Session) handleJoin(req JoinRequest) {
	num := s.nextParticipantNum.Add(1)
	p := &participant{
		ID:   fmt.Sprintf("P%d", num),
		Name: req.Name,
		Pos:  surface.Pos{}, // spawn at origin
		Out:  req.Out,
	}
	s.participants[p.ID] = p
	s.joinOrder = append(s.joinOrder, p.ID)
	s.log.Printf("participant %s (%s) joined, %d connected", p.ID, p.Name, len(s.participants))

	if req.Resp != nil {
		req.Resp <- JoinResponse{Welcome: protocol.WelcomeMsg{
			Type:            protocol.TypeWelcome,
			ProtocolVersion: protocol.Version,
			SessionID:       s.cfg.ID,
			ParticipantID:   p.ID,
			TickRateHz:      s.cfg.TickRateHz,
			Tick:            s.tick.Load(),
		}}
	}
}

func (s *Session) handleLeave(id string) {
	if _, ok := s.participants[id]; !ok {
		return
	}
	delete(s.participants, id)
	order := s.joinOrder[:0]
	for _, pid := range s.joinOrder {
		if pid != id {
			order = append(order, pid)
		}
	}
	s.joinOrder = order
	s.log.Printf("participant %s left, %d connected", id, len(s.participants))
}

func (s *Session) broadcast(b []byte) {
	for _, id := range s.sortedParticipantIDs() {
		p := s.participants[id]
		select {
		case p.Out <- b:
		default: // slow client; drop rather than stall the loop
		}
	}
}

func (s *Session) sortedParticipantIDs() []string {
	ids := make([]string, 0, len(s.participants))
	for id := range s.participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
