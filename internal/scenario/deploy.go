package scenario

import (
	"fmt"
	"log"

	"beltforge/internal/blueprint"
	"beltforge/internal/sim/session"
	"beltforge/internal/sim/surface"
)

const (
	// resourceConsumer is the structure whose module requests drive
	// resource pre-seeding.
	resourceConsumer = "big-mining-drill"

	// seedAmount is deposited per matching request; large enough that the
	// deposit never runs out within a session.
	seedAmount = int64(10_000_000)

	// Provisioning: hubs receive bots at the maximal quality tier.
	hubName    = "roboport"
	botItem    = "logistic-robot"
	botQuality = "legendary"

	deployForce = "player"
)

// Engine materializes the configured blueprint onto the session surface.
// Deploy runs exactly once, synchronously, inside a single tick.
type Engine struct {
	cfg  RunConfig
	sess *session.Session
	log  *log.Logger
}

func NewEngine(cfg RunConfig, sess *session.Session, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{cfg: cfg, sess: sess, log: logger}
}

// Deploy runs the full two-pass protocol:
//
//  1. import and decode the payload into a staged stack (fatal on failure),
//  2. stamp at the anchor and fix the spec-to-surface offset,
//  3. pre-seed resources under every drill spec with a mapped request,
//  4. revive the first pass, rolling stock last,
//  5. re-stamp and revive a second pass so structures that needed the
//     seeded resources can complete, then release the stack,
//  6. provision logistics robots into every roboport.
//
// Per-ghost revival failures are absorbed; only a decode failure aborts.
func (e *Engine) Deploy() error {
	surf := e.sess.Surface()
	anchor, ok := e.sess.AnchorPos()
	if !ok {
		return fmt.Errorf("no participant to anchor deployment")
	}

	stack := surf.CreateStack()
	defer stack.Destroy()
	if err := stack.Import(e.cfg.Blueprint); err != nil {
		return fmt.Errorf("import blueprint: %w", err)
	}
	specs := stack.Entities()
	if len(specs) == 0 {
		e.sess.Printf("blueprint is empty, nothing to deploy")
		return nil
	}

	ghosts := stack.Stamp(anchor, deployForce)
	offset := stack.Offset(anchor)

	// Resources must exist before any revival so resource-dependent
	// structures find valid ground. Seeded once, from the decoded specs;
	// the re-stamped second pass never seeds again.
	seeded := e.preseedResources(surf, specs, offset)

	e.revivePass(surf, ghosts)

	// Completion-dependent re-evaluation pass: the first stamp predates
	// the deposits, so re-stamp against current map state and revive again.
	second := stack.Stamp(anchor, deployForce)
	e.revivePass(surf, second)

	e.provisionBots(surf)

	e.sess.Printf("deployed %d entities (%d resource patches, second pass %d ghosts)",
		len(specs), seeded, len(second))
	return nil
}

// preseedResources deposits the mapped resource under every drill spec that
// carries a mapped first request. Returns the number of deposits written.
func (e *Engine) preseedResources(surf *surface.Surface, specs []blueprint.EntitySpec, offset surface.Pos) int {
	seeded := 0
	for _, spec := range specs {
		if spec.Name != resourceConsumer || len(spec.Items) == 0 {
			continue
		}
		req := spec.Items[0]
		resource, ok := ResourceForRequest(req.ID.Name, req.ID.QualityTier())
		if !ok {
			continue
		}
		surf.DepositResource(resource, seedAmount, spec.Position.Add(offset))
		seeded++
	}
	return seeded
}

// revivePass revives ghosts in order, deferring rolling stock until every
// other ghost in the pass has been processed. Successfully revived entities
// receive their requested modules; inert ghosts are skipped silently.
func (e *Engine) revivePass(surf *surface.Surface, ghosts []*surface.Ghost) {
	var deferred []*surface.Ghost
	for _, g := range ghosts {
		if surface.ClassifyRollingStock(g.InnerName) != surface.NotRollingStock {
			deferred = append(deferred, g)
			continue
		}
		e.reviveOne(surf, g)
	}
	for _, g := range deferred {
		e.reviveOne(surf, g)
	}
}

func (e *Engine) reviveOne(surf *surface.Surface, g *surface.Ghost) {
	ent, revived := surf.Revive(g)
	if !revived {
		return
	}
	for _, req := range g.Requests {
		ent.InsertModules(surface.ItemStack{
			Name:    req.ID.Name,
			Quality: req.ID.QualityTier(),
			Count:   req.Count,
		})
	}
}

// provisionBots inserts the configured robot count into every roboport.
// Zero bots or zero roboports is not an error.
func (e *Engine) provisionBots(surf *surface.Surface) {
	if e.cfg.BotCount <= 0 {
		return
	}
	for _, hub := range surf.FindEntitiesByName(hubName) {
		hub.Insert(surface.ItemStack{Name: botItem, Quality: botQuality, Count: e.cfg.BotCount})
	}
}
