package engine

import "github.com/tatianab/party-house/internal/models"

// Reason explains why an action was rejected. ReasonNone means it succeeded.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonHouseFull
	ReasonInsufficientFunds
	ReasonPurchaseLimitReached
	ReasonNotInShop
	ReasonCapacityMaxed
	ReasonInvalidSelection
	ReasonAbilityAlreadyUsed
	ReasonWrongPhase
	ReasonGameOver
	ReasonNoGuestsAvailable
)

var reasonNames = map[Reason]string{
	ReasonNone:                 "ok",
	ReasonHouseFull:            "house full",
	ReasonInsufficientFunds:    "insufficient funds",
	ReasonPurchaseLimitReached: "purchase limit reached",
	ReasonNotInShop:            "not in shop",
	ReasonCapacityMaxed:        "capacity at maximum",
	ReasonInvalidSelection:     "invalid selection",
	ReasonAbilityAlreadyUsed:   "ability already used",
	ReasonWrongPhase:           "wrong phase",
	ReasonGameOver:             "game over",
	ReasonNoGuestsAvailable:    "no guests available",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// Outcome is the phase-level consequence of an action.
type Outcome int

const (
	OutcomeNone         Outcome = iota // party continues
	OutcomeTroubleEnded                // party forfeited, now in shop
	OutcomePartyEnded                  // rewards collected, now in shop
	OutcomeWon
	OutcomeLost
	OutcomeNewRound
)

var outcomeNames = map[Outcome]string{
	OutcomeNone:         "none",
	OutcomeTroubleEnded: "trouble",
	OutcomePartyEnded:   "party ended",
	OutcomeWon:          "won",
	OutcomeLost:         "lost",
	OutcomeNewRound:     "new round",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// Status is the house evaluation after an action.
type Status struct {
	RawTrouble int
	Trouble    int
	Stars      int
	Full       bool
}

// AdmitResult reports an admission attempt, including cascaded auto-invites.
type AdmitResult struct {
	Reason   Reason
	Admitted []*models.GuestInstance // first entry is the requested guest
	Dropped  []string                // auto-invites that did not fit
	Status   Status
}

func (r AdmitResult) OK() bool { return r.Reason == ReasonNone }

// PartyReport is what ending a party phase yielded.
type PartyReport struct {
	Outcome    Outcome
	Popularity int
	Cash       int
	Stars      int
}

// PurchaseResult reports a shop purchase or capacity upgrade.
type PurchaseResult struct {
	Reason Reason
	Key    string
	Cost   int
}

func (r PurchaseResult) OK() bool { return r.Reason == ReasonNone }

// AbilityResult reports a manual ability use.
type AbilityResult struct {
	Reason  Reason
	Kind    models.AbilityKind
	Removed []*models.GuestInstance
	Admit   *AdmitResult
	Peeked  *models.GuestDefinition
	Outcome Outcome
}

func (r AbilityResult) OK() bool { return r.Reason == ReasonNone }
