// Package controller sequences player actions against the engine, reports
// what happened through a Notifier and asks the player through a Chooser.
package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tatianab/party-house/internal/engine"
	"github.com/tatianab/party-house/internal/models"
	"github.com/tatianab/party-house/internal/streak"
)

// NoticeKind classifies a notification for presentation.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeRejected
	NoticeTrouble
	NoticePartyEnded
	NoticeWon
	NoticeLost
)

// Notice is one message for the player.
type Notice struct {
	Kind NoticeKind
	Text string
}

type Notifier interface {
	Notify(Notice)
}

// Chooser asks the player to pick one of options. It returns the 1-based
// index of the pick, or false if the player cancelled.
type Chooser interface {
	Choose(ctx context.Context, prompt string, options []string) (int, bool)
}

// Controller drives one player's games. It is not safe for concurrent use.
type Controller struct {
	eng     *engine.Engine
	notify  Notifier
	chooser Chooser
	streak  streak.Store
	log     logrus.FieldLogger

	winStreak int
}

func New(eng *engine.Engine, notifier Notifier, chooser Chooser, store streak.Store, log logrus.FieldLogger) *Controller {
	return &Controller{
		eng:     eng,
		notify:  notifier,
		chooser: chooser,
		streak:  store,
		log:     log,
	}
}

func (c *Controller) say(kind NoticeKind, format string, args ...any) {
	c.notify.Notify(Notice{Kind: kind, Text: fmt.Sprintf(format, args...)})
}

func (c *Controller) reject(action string, r engine.Reason) {
	c.say(NoticeRejected, "Can't %s: %s.", action, r)
}

// Start begins a new game and loads the saved win streak.
func (c *Controller) Start(ctx context.Context) error {
	c.eng.Reset()
	n, err := c.streak.Get(ctx)
	if err != nil {
		return fmt.Errorf("load streak: %w", err)
	}
	c.winStreak = n
	c.say(NoticeInfo, "The party house opens its doors. Round 1 of %d.", c.eng.State().MaxRounds)
	return nil
}

// OpenDoor admits the waiting guest. With a full house the door ends the
// party instead.
func (c *Controller) OpenDoor(ctx context.Context) error {
	res, err := c.eng.AdmitNext()
	if err != nil {
		return err
	}
	switch res.Reason {
	case engine.ReasonNone:
	case engine.ReasonHouseFull:
		return c.EndRound(ctx)
	default:
		c.reject("open the door", res.Reason)
		return nil
	}
	c.announceAdmit(res)
	return c.settle(ctx, c.eng.Settle())
}

func (c *Controller) announceAdmit(res engine.AdmitResult) {
	for i, g := range res.Admitted {
		if i == 0 {
			c.say(NoticeInfo, "%s arrives.", g.Name())
		} else {
			c.say(NoticeInfo, "%s was invited along.", g.Name())
		}
	}
	if len(res.Dropped) > 0 {
		c.say(NoticeInfo, "No room for %s.", strings.Join(res.Dropped, ", "))
	}
}

// EndRound ends the party phase and pays out the house.
func (c *Controller) EndRound(ctx context.Context) error {
	report, r := c.eng.EndParty()
	if r != engine.ReasonNone {
		c.reject("end the party", r)
		return nil
	}
	return c.settle(ctx, report)
}

func (c *Controller) settle(ctx context.Context, report engine.PartyReport) error {
	switch report.Outcome {
	case engine.OutcomeTroubleEnded:
		c.say(NoticeTrouble, "Too much trouble! The police shut the party down. No rewards this round.")
	case engine.OutcomePartyEnded:
		c.say(NoticePartyEnded, "The party winds down: +%d popularity, +%d cash.", report.Popularity, report.Cash)
	case engine.OutcomeWon:
		return c.won(ctx, report)
	}
	return nil
}

func (c *Controller) won(ctx context.Context, report engine.PartyReport) error {
	n, err := streak.Increment(ctx, c.streak)
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	c.winStreak = n
	c.log.WithFields(logrus.Fields{"stars": report.Stars, "streak": n}).Info("game won")
	c.say(NoticeWon, "%d stars at the party. You win! Win streak: %d.", report.Stars, n)
	return nil
}

func (c *Controller) lost(ctx context.Context, why string) error {
	if err := streak.Reset(ctx, c.streak); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	c.winStreak = 0
	c.log.WithField("reason", why).Info("game lost")
	c.say(NoticeLost, "Game over: %s.", why)
	return nil
}

// NextRound leaves the shop for the next party.
func (c *Controller) NextRound(ctx context.Context) error {
	outcome, r := c.eng.AdvanceRound()
	if r != engine.ReasonNone {
		c.reject("start the next round", r)
		return nil
	}
	if outcome == engine.OutcomeLost {
		return c.lost(ctx, "out of rounds")
	}
	s := c.eng.State()
	c.say(NoticeInfo, "Round %d of %d begins.", s.CurrentRound, s.MaxRounds)
	return nil
}

// Buy purchases a guest type from the shop.
func (c *Controller) Buy(key string) engine.PurchaseResult {
	res := c.eng.Buy(key)
	if !res.OK() {
		c.reject("buy "+key, res.Reason)
		return res
	}
	d, _ := c.eng.Catalog().Get(key)
	c.say(NoticeInfo, "Bought %s for %d popularity.", d.Name, res.Cost)
	return res
}

// Upgrade buys one more house slot.
func (c *Controller) Upgrade() engine.PurchaseResult {
	res := c.eng.UpgradeCapacity()
	if !res.OK() {
		c.reject("upgrade the house", res.Reason)
		return res
	}
	c.say(NoticeInfo, "House capacity is now %d (cost %d cash).", c.eng.State().HouseCapacity, res.Cost)
	return res
}

// Forfeit abandons the game as a loss.
func (c *Controller) Forfeit(ctx context.Context) error {
	if r := c.eng.Forfeit(); r != engine.ReasonNone {
		c.reject("forfeit", r)
		return nil
	}
	return c.lost(ctx, "you left the party")
}

// UseAbility triggers a manual ability of the admitted guest id. Kick and
// Invite ask the chooser for a target.
func (c *Controller) UseAbility(ctx context.Context, kind models.AbilityKind, id string) (engine.AbilityResult, error) {
	var (
		res engine.AbilityResult
		err error
	)
	switch kind {
	case models.ManualReshuffle:
		res = c.eng.Reshuffle(id)
		if res.OK() {
			c.say(NoticeInfo, "Everyone out! %d guests leave without a word.", len(res.Removed))
		}

	case models.Kick:
		res = c.kick(ctx, id)

	case models.ManualInvite:
		res, err = c.invite(ctx, id)
		if err != nil {
			return res, err
		}

	case models.Peek:
		res = c.eng.Peek(id)
		if res.OK() {
			c.say(NoticeInfo, "The watchdog sniffs at the door: %s is next.", res.Peeked.Name)
		}

	default:
		res = engine.AbilityResult{Kind: kind, Reason: engine.ReasonInvalidSelection}
	}

	if !res.OK() {
		c.reject("use "+kind.String(), res.Reason)
	}
	return res, nil
}

func (c *Controller) choose(ctx context.Context, prompt string, options []string) (int, bool) {
	if len(options) == 0 {
		return 0, false
	}
	n, ok := c.chooser.Choose(ctx, prompt, options)
	if !ok || n < 1 || n > len(options) {
		return 0, false
	}
	return n - 1, true
}

func (c *Controller) kick(ctx context.Context, bouncerID string) engine.AbilityResult {
	if r := c.eng.CanKick(bouncerID); r != engine.ReasonNone {
		return engine.AbilityResult{Kind: models.Kick, Reason: r}
	}
	targets := c.eng.KickTargets(bouncerID)
	names := make([]string, len(targets))
	for i, g := range targets {
		names[i] = g.Name()
	}
	i, ok := c.choose(ctx, "Kick whom?", names)
	if !ok {
		return engine.AbilityResult{Kind: models.Kick, Reason: engine.ReasonInvalidSelection}
	}

	res := c.eng.Kick(bouncerID, targets[i].ID)
	if !res.OK() {
		return res
	}
	c.say(NoticeInfo, "The bouncer throws %s out.", targets[i].Name())
	if res.Outcome == engine.OutcomeTroubleEnded {
		c.say(NoticeTrouble, "Without the white flag, trouble boils over. The party is shut down.")
	}
	return res
}

func (c *Controller) invite(ctx context.Context, driverID string) (engine.AbilityResult, error) {
	if r := c.eng.CanInvite(driverID); r != engine.ReasonNone {
		return engine.AbilityResult{Kind: models.ManualInvite, Reason: r}, nil
	}
	keys := c.eng.InviteOptions()
	counts := c.eng.AvailableCounts()
	names := make([]string, len(keys))
	for i, key := range keys {
		d, _ := c.eng.Catalog().Get(key)
		names[i] = fmt.Sprintf("%s (%d)", d.Name, counts[key])
	}
	i, ok := c.choose(ctx, "Who should the driver pick up?", names)
	if !ok {
		return engine.AbilityResult{Kind: models.ManualInvite, Reason: engine.ReasonInvalidSelection}, nil
	}

	res, err := c.eng.Invite(driverID, keys[i])
	if err != nil || !res.OK() {
		return res, err
	}
	c.announceAdmit(*res.Admit)
	report := c.eng.Settle()
	res.Outcome = report.Outcome
	return res, c.settle(ctx, report)
}

// WinStreak is the streak as of the last load or update.
func (c *Controller) WinStreak() int {
	return c.winStreak
}
