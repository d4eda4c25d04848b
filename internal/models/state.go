package models

import "github.com/zyedidia/generic/mapset"

const (
	StartingCapacity  = 5
	MaxCapacity       = 35
	DefaultMaxRounds  = 25
	ShopSize          = 10
	ShopStarSlots     = 2
	MaxNonStarCopies  = 4
	TroubleLimit      = 3
	StarsToWin        = 4
	BaseUpgradeCost   = 2
	MaxUpgradeCost    = 12
	ComedianFullBonus = 5
)

// StartingGuests is the owned pool a new game begins with.
var StartingGuests = []string{
	"basic", "basic", "basic", "basic",
	"rich", "rich", "rich",
	"troublemaker", "troublemaker", "troublemaker",
}

// Phase is the round sub-phase.
type Phase int

const (
	PartyPhase Phase = iota
	ShopPhase
)

func (p Phase) String() string {
	if p == PartyPhase {
		return "party"
	}
	return "shop"
}

// Result is how a game ended, if it has.
type Result int

const (
	InProgress Result = iota
	Won
	Lost
)

func (r Result) String() string {
	switch r {
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "in progress"
}

// GameState is the single mutable aggregate of one game.
type GameState struct {
	GameID string

	Popularity int
	Cash       int

	HouseCapacity int
	HouseGuests   []*GuestInstance
	Upgrades      int

	CurrentRound int
	MaxRounds    int
	Phase        Phase
	Result       Result

	// AbilityUsage is keyed by guest type key for type-scoped abilities and
	// by instance ID for instance-scoped ones.
	AbilityUsage map[string]mapset.Set[AbilityKind]
	KickedTypes  mapset.Set[string]

	OwnedGuests    []string
	ShopPool       []string
	PurchaseCounts map[string]int

	StarCountLastPhase int
	NextGuest          string // type key, empty when the pool is exhausted
}

// NewGameState returns a round-one party-phase state with the starting pool.
// The shop pool is left empty for the engine to fill.
func NewGameState(maxRounds int) *GameState {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &GameState{
		HouseCapacity:  StartingCapacity,
		CurrentRound:   1,
		MaxRounds:      maxRounds,
		Phase:          PartyPhase,
		AbilityUsage:   map[string]mapset.Set[AbilityKind]{},
		KickedTypes:    mapset.New[string](),
		OwnedGuests:    append([]string(nil), StartingGuests...),
		PurchaseCounts: map[string]int{},
	}
}

// IsPartyPhase reports whether guests can currently be admitted.
func (s *GameState) IsPartyPhase() bool {
	return s.Phase == PartyPhase
}

// Over reports whether the game has ended.
func (s *GameState) Over() bool {
	return s.Result != InProgress
}

// HouseFull reports whether no more guests fit.
func (s *GameState) HouseFull() bool {
	return len(s.HouseGuests) >= s.HouseCapacity
}

// Guest finds an admitted guest by instance ID.
func (s *GameState) Guest(id string) (*GuestInstance, int) {
	for i, g := range s.HouseGuests {
		if g.ID == id {
			return g, i
		}
	}
	return nil, -1
}

// AbilityUsed reports whether key has already used kind this phase.
func (s *GameState) AbilityUsed(key string, kind AbilityKind) bool {
	used, ok := s.AbilityUsage[key]
	return ok && used.Has(kind)
}

// MarkAbilityUsed records that key used kind this phase.
func (s *GameState) MarkAbilityUsed(key string, kind AbilityKind) {
	used, ok := s.AbilityUsage[key]
	if !ok {
		used = mapset.New[AbilityKind]()
		s.AbilityUsage[key] = used
	}
	used.Put(kind)
}

// ResetPhaseTracking clears per-phase ability usage and kicked types.
func (s *GameState) ResetPhaseTracking() {
	s.AbilityUsage = map[string]mapset.Set[AbilityKind]{}
	s.KickedTypes = mapset.New[string]()
}

// Snapshot returns a deep copy safe to hand to presentation code.
func (s *GameState) Snapshot() GameState {
	c := *s
	c.HouseGuests = make([]*GuestInstance, len(s.HouseGuests))
	for i, g := range s.HouseGuests {
		c.HouseGuests[i] = g.Clone()
	}
	c.AbilityUsage = make(map[string]mapset.Set[AbilityKind], len(s.AbilityUsage))
	for k, used := range s.AbilityUsage {
		cp := mapset.New[AbilityKind]()
		used.Each(func(kind AbilityKind) { cp.Put(kind) })
		c.AbilityUsage[k] = cp
	}
	c.KickedTypes = mapset.New[string]()
	s.KickedTypes.Each(func(key string) { c.KickedTypes.Put(key) })
	c.OwnedGuests = append([]string(nil), s.OwnedGuests...)
	c.ShopPool = append([]string(nil), s.ShopPool...)
	c.PurchaseCounts = make(map[string]int, len(s.PurchaseCounts))
	for k, v := range s.PurchaseCounts {
		c.PurchaseCounts[k] = v
	}
	return c
}
