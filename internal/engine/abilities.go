package engine

import (
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/tatianab/party-house/internal/models"
)

// holder finds the admitted guest id and checks it declares kind.
func (e *Engine) holder(id string, kind models.AbilityKind) *models.GuestInstance {
	g, _ := e.state.Guest(id)
	if g == nil || !g.Has(kind) {
		return nil
	}
	return g
}

// Reshuffle empties the house without rewards. Usable once per party per
// guest type, whichever copy triggers it.
func (e *Engine) Reshuffle(id string) AbilityResult {
	res := AbilityResult{Kind: models.ManualReshuffle}
	if r := e.partyGuard(); r != ReasonNone {
		res.Reason = r
		return res
	}
	g := e.holder(id, models.ManualReshuffle)
	if g == nil {
		res.Reason = ReasonInvalidSelection
		return res
	}
	if e.state.AbilityUsed(g.Key(), models.ManualReshuffle) {
		res.Reason = ReasonAbilityAlreadyUsed
		return res
	}

	e.state.MarkAbilityUsed(g.Key(), models.ManualReshuffle)
	res.Removed = e.state.HouseGuests
	e.state.HouseGuests = nil
	e.refreshNextGuest()
	e.logger().WithField("removed", len(res.Removed)).Info("house reshuffled")
	return res
}

// KickTargets lists the guests a Bouncer could remove.
func (e *Engine) KickTargets(bouncerID string) []*models.GuestInstance {
	var targets []*models.GuestInstance
	for _, g := range e.state.HouseGuests {
		if g.ID != bouncerID {
			targets = append(targets, g.Clone())
		}
	}
	return targets
}

// Kick removes targetID from the house and bars its type from the pool for
// the rest of the party. Losing a White Flag can push trouble over the
// limit, which ends the party at once.
func (e *Engine) Kick(bouncerID, targetID string) AbilityResult {
	res := AbilityResult{Kind: models.Kick}
	if r := e.CanKick(bouncerID); r != ReasonNone {
		res.Reason = r
		return res
	}
	target, idx := e.state.Guest(targetID)
	if target == nil || targetID == bouncerID {
		res.Reason = ReasonInvalidSelection
		return res
	}

	e.state.MarkAbilityUsed(bouncerID, models.Kick)
	e.state.HouseGuests = slices.Delete(e.state.HouseGuests, idx, idx+1)
	e.state.KickedTypes.Put(target.Key())
	res.Removed = []*models.GuestInstance{target}
	e.logger().WithFields(logrus.Fields{
		"guest":    target.Key(),
		"instance": target.ID,
	}).Info("guest kicked")

	if e.Trouble() >= models.TroubleLimit {
		res.Outcome = e.endByTrouble().Outcome
		return res
	}
	e.recountDancers()
	e.refreshNextGuest()
	return res
}

// CanKick reports why bouncerID could not kick right now, or ReasonNone.
func (e *Engine) CanKick(bouncerID string) Reason {
	if r := e.partyGuard(); r != ReasonNone {
		return r
	}
	if e.holder(bouncerID, models.Kick) == nil {
		return ReasonInvalidSelection
	}
	if e.kickPolicy == KickOncePerInstance && e.state.AbilityUsed(bouncerID, models.Kick) {
		return ReasonAbilityAlreadyUsed
	}
	return ReasonNone
}

// InviteOptions lists the guest types a Driver may pick: available in the
// pool, not kicked, and not already in the house.
func (e *Engine) InviteOptions() []string {
	present := map[string]bool{}
	for _, g := range e.state.HouseGuests {
		present[g.Key()] = true
	}
	var opts []string
	for _, key := range e.AvailablePool() {
		if present[key] || slices.Contains(opts, key) {
			continue
		}
		opts = append(opts, key)
	}
	return opts
}

// Invite admits a chosen guest type through a Driver, once per Driver per
// party. The caller settles the resulting status like any admission.
func (e *Engine) Invite(driverID, key string) (AbilityResult, error) {
	res := AbilityResult{Kind: models.ManualInvite}
	if r := e.CanInvite(driverID); r != ReasonNone {
		res.Reason = r
		return res, nil
	}
	if !slices.Contains(e.InviteOptions(), key) {
		res.Reason = ReasonInvalidSelection
		return res, nil
	}

	e.state.MarkAbilityUsed(driverID, models.ManualInvite)
	admit, err := e.Admit(key)
	if err != nil {
		return res, err
	}
	res.Admit = &admit
	res.Reason = admit.Reason
	return res, nil
}

// CanInvite reports why driverID could not invite right now, or ReasonNone.
func (e *Engine) CanInvite(driverID string) Reason {
	if r := e.partyGuard(); r != ReasonNone {
		return r
	}
	if e.holder(driverID, models.ManualInvite) == nil {
		return ReasonInvalidSelection
	}
	if e.state.AbilityUsed(driverID, models.ManualInvite) {
		return ReasonAbilityAlreadyUsed
	}
	if e.state.HouseFull() {
		return ReasonHouseFull
	}
	return ReasonNone
}

// AbilitySpent reports whether the admitted guest id has used up kind for
// this party. Unlimited kicks are never spent.
func (e *Engine) AbilitySpent(id string, kind models.AbilityKind) bool {
	g, _ := e.state.Guest(id)
	if g == nil {
		return false
	}
	switch kind {
	case models.ManualReshuffle:
		return e.state.AbilityUsed(g.Key(), kind)
	case models.Kick:
		return e.kickPolicy == KickOncePerInstance && e.state.AbilityUsed(id, kind)
	}
	return e.state.AbilityUsed(id, kind)
}

// Peek reveals the pending door guest without consuming it, once per
// Watchdog per party.
func (e *Engine) Peek(watchdogID string) AbilityResult {
	res := AbilityResult{Kind: models.Peek}
	if r := e.partyGuard(); r != ReasonNone {
		res.Reason = r
		return res
	}
	if e.holder(watchdogID, models.Peek) == nil {
		res.Reason = ReasonInvalidSelection
		return res
	}
	if e.state.AbilityUsed(watchdogID, models.Peek) {
		res.Reason = ReasonAbilityAlreadyUsed
		return res
	}
	next, ok := e.NextGuest()
	if !ok {
		res.Reason = ReasonNoGuestsAvailable
		return res
	}
	e.state.MarkAbilityUsed(watchdogID, models.Peek)
	res.Peeked = &next
	return res
}
