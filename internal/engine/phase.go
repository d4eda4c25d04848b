package engine

import (
	"github.com/sirupsen/logrus"
	"github.com/tatianab/party-house/internal/models"
)

// Settle applies the consequences of the current house after an action:
// trouble first, then the star win, then a full house ending the party.
// It does nothing outside a running party phase.
func (e *Engine) Settle() PartyReport {
	if e.partyGuard() != ReasonNone {
		return PartyReport{Outcome: OutcomeNone}
	}
	switch {
	case e.Trouble() >= models.TroubleLimit:
		return e.endByTrouble()
	case e.Stars() >= models.StarsToWin:
		return e.win()
	case e.state.HouseFull():
		return e.collect()
	}
	return PartyReport{Outcome: OutcomeNone}
}

// EndParty ends the party phase at the player's request. Trouble is still
// checked first; otherwise the star win is checked before rewards are paid.
func (e *Engine) EndParty() (PartyReport, Reason) {
	if r := e.partyGuard(); r != ReasonNone {
		return PartyReport{}, r
	}
	if e.Trouble() >= models.TroubleLimit {
		return e.endByTrouble(), ReasonNone
	}
	if e.Stars() >= models.StarsToWin {
		return e.win(), ReasonNone
	}
	return e.collect(), ReasonNone
}

func (e *Engine) endByTrouble() PartyReport {
	e.logger().WithField("trouble", e.Trouble()).Info("party ended by trouble")
	e.state.HouseGuests = nil
	e.state.Phase = models.ShopPhase
	return PartyReport{Outcome: OutcomeTroubleEnded}
}

func (e *Engine) win() PartyReport {
	stars := e.Stars()
	e.state.StarCountLastPhase = stars
	e.state.Result = models.Won
	e.logger().WithField("stars", stars).Info("game won")
	return PartyReport{Outcome: OutcomeWon, Stars: stars}
}

// collect scores the house and moves to the shop.
func (e *Engine) collect() PartyReport {
	house := e.state.HouseGuests

	if e.state.HouseFull() {
		var comedians []*models.GuestInstance
		for _, g := range house {
			if g.Has(models.ComedianSynergy) {
				comedians = append(comedians, g)
			}
		}
		for _, c := range comedians {
			c.Popularity = models.ComedianFullBonus * len(comedians)
		}
	}

	report := PartyReport{Outcome: OutcomePartyEnded, Stars: e.Stars()}
	for _, g := range house {
		report.Popularity += g.Popularity
		report.Cash += g.Cash
	}

	e.state.Popularity += report.Popularity
	e.state.Cash += report.Cash
	if e.state.Cash < 0 {
		e.state.Cash = 0
	}
	e.state.StarCountLastPhase = report.Stars
	e.state.HouseGuests = nil
	e.state.Phase = models.ShopPhase

	e.logger().WithFields(logrus.Fields{
		"popularity": report.Popularity,
		"cash":       report.Cash,
		"stars":      report.Stars,
	}).Info("party ended")
	return report
}

// AdvanceRound leaves the shop for the next party. Going past the last
// round loses the game instead.
func (e *Engine) AdvanceRound() (Outcome, Reason) {
	if e.state.Over() {
		return OutcomeNone, ReasonGameOver
	}
	if e.state.IsPartyPhase() {
		return OutcomeNone, ReasonWrongPhase
	}

	e.state.CurrentRound++
	if e.state.CurrentRound > e.state.MaxRounds {
		e.state.Result = models.Lost
		e.logger().Info("game lost: out of rounds")
		return OutcomeLost, ReasonNone
	}

	e.state.Phase = models.PartyPhase
	e.state.ResetPhaseTracking()
	e.selectNextGuest()
	e.logger().Debug("round started")
	return OutcomeNewRound, ReasonNone
}

// Forfeit ends the game as a loss.
func (e *Engine) Forfeit() Reason {
	if e.state.Over() {
		return ReasonGameOver
	}
	e.state.Result = models.Lost
	e.logger().Info("game forfeited")
	return ReasonNone
}
