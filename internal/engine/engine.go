package engine

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tatianab/party-house/internal/models"
)

// KickPolicy controls how often a single Bouncer may kick per party.
type KickPolicy int

const (
	KickUnlimited KickPolicy = iota
	KickOncePerInstance
)

// Engine owns one game's state and enforces its rules. It is not safe for
// concurrent use; callers serialize actions.
type Engine struct {
	catalog    *models.Catalog
	rng        Rand
	ids        IDSource
	log        logrus.FieldLogger
	maxRounds  int
	kickPolicy KickPolicy

	state *models.GameState
}

// Option configures an Engine.
type Option func(*Engine)

func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }
func WithIDSource(s IDSource) Option { return func(e *Engine) { e.ids = s } }
func WithMaxRounds(n int) Option { return func(e *Engine) { e.maxRounds = n } }
func WithKickPolicy(p KickPolicy) Option { return func(e *Engine) { e.kickPolicy = p } }

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates an engine and starts a fresh game.
func NewEngine(catalog *models.Catalog, opts ...Option) (*Engine, error) {
	e := &Engine{
		catalog:   catalog,
		maxRounds: models.DefaultMaxRounds,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		r, err := NewRand(0)
		if err != nil {
			return nil, err
		}
		e.rng = r
	}
	if e.ids == nil {
		e.ids = NewULIDSource()
	}
	if e.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.log = l
	}
	e.Reset()
	return e, nil
}

// Reset starts a new game: round one, party phase, starting pool, new shop.
func (e *Engine) Reset() {
	s := models.NewGameState(e.maxRounds)
	s.GameID = uuid.NewString()
	e.state = s
	s.ShopPool = e.generateShopPool()
	for _, key := range s.ShopPool {
		s.PurchaseCounts[key] = 0
	}
	e.selectNextGuest()
	e.logger().WithField("shop", s.ShopPool).Info("new game")
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *models.Catalog {
	return e.catalog
}

// State returns a deep copy of the current state.
func (e *Engine) State() models.GameState {
	return e.state.Snapshot()
}

func (e *Engine) logger() logrus.FieldLogger {
	return e.log.WithFields(logrus.Fields{
		"game":  e.state.GameID,
		"round": e.state.CurrentRound,
	})
}

// RawTrouble sums trouble across the house.
func (e *Engine) RawTrouble() int {
	total := 0
	for _, g := range e.state.HouseGuests {
		total += g.Trouble
	}
	return total
}

// Trouble is RawTrouble less one if any White Flag holder is present.
func (e *Engine) Trouble() int {
	raw := e.RawTrouble()
	for _, g := range e.state.HouseGuests {
		if g.Has(models.WhiteFlag) {
			return max(0, raw-1)
		}
	}
	return raw
}

// Stars sums star values across the house.
func (e *Engine) Stars() int {
	total := 0
	for _, g := range e.state.HouseGuests {
		total += g.Star
	}
	return total
}

func (e *Engine) status() Status {
	return Status{
		RawTrouble: e.RawTrouble(),
		Trouble:    e.Trouble(),
		Stars:      e.Stars(),
		Full:       e.state.HouseFull(),
	}
}

// Status evaluates the current house.
func (e *Engine) Status() Status {
	return e.status()
}

// AvailablePool lists owned guest type keys that can still be invited, one
// entry per copy not already in the house, excluding kicked types.
func (e *Engine) AvailablePool() []string {
	inHouse := map[string]int{}
	for _, g := range e.state.HouseGuests {
		inHouse[g.Key()]++
	}
	var pool []string
	for _, key := range e.state.OwnedGuests {
		if e.state.KickedTypes.Has(key) {
			continue
		}
		if inHouse[key] > 0 {
			inHouse[key]--
			continue
		}
		pool = append(pool, key)
	}
	return pool
}

// AvailableCounts is AvailablePool grouped by type key.
func (e *Engine) AvailableCounts() map[string]int {
	counts := map[string]int{}
	for _, key := range e.AvailablePool() {
		counts[key]++
	}
	return counts
}

// NextGuest returns the pre-selected next door guest, if any.
func (e *Engine) NextGuest() (models.GuestDefinition, bool) {
	if e.state.NextGuest == "" {
		return models.GuestDefinition{}, false
	}
	return e.catalog.Get(e.state.NextGuest)
}

func (e *Engine) selectNextGuest() {
	pool := e.AvailablePool()
	if len(pool) == 0 {
		e.state.NextGuest = ""
		return
	}
	e.state.NextGuest = pool[e.rng.IntN(len(pool))]
}

// refreshNextGuest keeps the pending guest unless it is no longer available.
func (e *Engine) refreshNextGuest() {
	if e.state.NextGuest != "" && e.AvailableCounts()[e.state.NextGuest] > 0 {
		return
	}
	e.selectNextGuest()
}

func (e *Engine) partyGuard() Reason {
	if e.state.Over() {
		return ReasonGameOver
	}
	if !e.state.IsPartyPhase() {
		return ReasonWrongPhase
	}
	return ReasonNone
}

// AdmitNext lets the pre-selected guest in through the door.
func (e *Engine) AdmitNext() (AdmitResult, error) {
	if r := e.partyGuard(); r != ReasonNone {
		return AdmitResult{Reason: r, Status: e.status()}, nil
	}
	if e.state.HouseFull() {
		return AdmitResult{Reason: ReasonHouseFull, Status: e.status()}, nil
	}
	key := e.state.NextGuest
	if key == "" {
		return AdmitResult{Reason: ReasonNoGuestsAvailable, Status: e.status()}, nil
	}
	res, err := e.admitKey(key)
	if err != nil {
		return res, err
	}
	e.selectNextGuest()
	res.Status = e.status()
	return res, nil
}

// Admit lets a guest of the given type into the house and resolves its
// abilities, cascading auto-invites while capacity allows. It reports the
// resulting status but never ends the phase itself; see Settle.
func (e *Engine) Admit(key string) (AdmitResult, error) {
	if r := e.partyGuard(); r != ReasonNone {
		return AdmitResult{Reason: r, Status: e.status()}, nil
	}
	res, err := e.admitKey(key)
	if err != nil {
		return res, err
	}
	e.refreshNextGuest()
	res.Status = e.status()
	return res, nil
}

// admitKey runs the admission cascade without touching the pending guest.
func (e *Engine) admitKey(key string) (AdmitResult, error) {
	var res AdmitResult
	recount, err := e.admit(key, &res)
	if err != nil {
		return res, err
	}
	if recount {
		e.recountDancers()
	}
	return res, nil
}

func (e *Engine) admit(key string, res *AdmitResult) (bool, error) {
	if e.state.HouseFull() {
		if len(res.Admitted) == 0 {
			res.Reason = ReasonHouseFull
		} else {
			res.Dropped = append(res.Dropped, key)
		}
		return false, nil
	}

	g, err := e.catalog.Instantiate(key)
	if err != nil {
		return false, err
	}
	g.ID = e.ids.NewID()
	e.state.HouseGuests = append(e.state.HouseGuests, g)
	res.Admitted = append(res.Admitted, g)
	e.logger().WithFields(logrus.Fields{
		"guest":    key,
		"instance": g.ID,
	}).Debug("guest admitted")

	effects := Resolve(g, e.state.HouseGuests, e.AvailablePool(), e.catalog, e.rng)
	recount := effects.RecountDancers

	for _, invite := range effects.Invites {
		r, err := e.admit(invite, res)
		if err != nil {
			return false, err
		}
		recount = recount || r
	}

	if effects.Reshuffle {
		house := e.state.HouseGuests
		e.rng.Shuffle(len(house), func(i, j int) { house[i], house[j] = house[j], house[i] })
	}

	for _, m := range effects.Modifications {
		if target, _ := e.state.Guest(m.InstanceID); target != nil {
			target.Apply(m.Property, m.Delta)
		}
	}

	return recount, nil
}

// recountDancers sets every Dancer's popularity to the number of Dancers
// in the house. Run after anything that adds or removes a Dancer.
func (e *Engine) recountDancers() {
	var dancers []*models.GuestInstance
	for _, g := range e.state.HouseGuests {
		if g.Has(models.DancerSynergy) {
			dancers = append(dancers, g)
		}
	}
	for _, d := range dancers {
		d.Popularity = len(dancers)
	}
}
