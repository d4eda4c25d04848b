package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tatianab/party-house/internal/config"
	"github.com/tatianab/party-house/internal/controller"
	"github.com/tatianab/party-house/internal/engine"
	"github.com/tatianab/party-house/internal/logger"
	"github.com/tatianab/party-house/internal/models"
	"github.com/tatianab/party-house/internal/streak"
)

const (
	games         = 200
	maxActions    = 5000
	maxCapacityAI = 15
)

// quiet drops notices; the summary is all we print.
type quiet struct{}

func (quiet) Notify(controller.Notice) {}

// autoChooser kicks trouble first and invites anyone who isn't trouble.
type autoChooser struct {
	trouble map[string]bool // guest names that bring trouble
}

func (a autoChooser) Choose(_ context.Context, prompt string, options []string) (int, bool) {
	kicking := strings.HasPrefix(prompt, "Kick")
	for i, o := range options {
		name, _, _ := strings.Cut(o, " (")
		if a.trouble[name] == kicking {
			return i + 1, true
		}
	}
	return 0, false
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	catalog := models.DefaultCatalog()
	chooser := autoChooser{trouble: map[string]bool{}}
	for _, key := range catalog.Keys() {
		d, _ := catalog.Get(key)
		if d.Trouble > 0 {
			chooser.trouble[d.Name] = true
		}
	}

	kick, _ := cfg.Kick()
	store := streak.NewMemoryStore()
	wins, rounds, best := 0, 0, 0

	for i := 0; i < games; i++ {
		seed := cfg.Seed + int64(i) + 1
		rng, err := engine.NewRand(seed)
		if err != nil {
			log.Fatalf("Failed to seed: %v", err)
		}
		eng, err := engine.NewEngine(catalog,
			engine.WithRand(rng),
			engine.WithIDSource(&engine.SequenceIDs{}),
			engine.WithMaxRounds(cfg.MaxRounds),
			engine.WithKickPolicy(kick),
			engine.WithLogger(lg),
		)
		if err != nil {
			log.Fatalf("Failed to create engine: %v", err)
		}
		ctrl := controller.New(eng, quiet{}, chooser, store, lg)

		if err := play(ctx, ctrl, eng); err != nil {
			log.Fatalf("Game %d failed: %v", i+1, err)
		}
		if err := eng.CheckInvariants(); err != nil {
			log.Fatalf("Game %d broke an invariant: %v", i+1, err)
		}

		v := ctrl.View()
		rounds += v.State.CurrentRound
		if v.State.Result == models.Won {
			wins++
		}
		best = max(best, ctrl.WinStreak())
		lg.WithFields(logrus.Fields{
			"game":   i + 1,
			"seed":   seed,
			"result": v.State.Result,
			"round":  v.State.CurrentRound,
		}).Debug("game finished")
	}

	fmt.Printf("Games: %d\n", games)
	fmt.Printf("Wins: %d (%.1f%%)\n", wins, 100*float64(wins)/games)
	fmt.Printf("Average rounds: %.1f\n", float64(rounds)/games)
	fmt.Printf("Best win streak: %d\n", best)
}

func play(ctx context.Context, ctrl *controller.Controller, eng *engine.Engine) error {
	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	for n := 0; n < maxActions; n++ {
		v := ctrl.View()
		if v.State.Over() {
			return nil
		}
		var err error
		if v.State.IsPartyPhase() {
			err = partyTurn(ctx, ctrl, v)
		} else {
			err = shopTurn(ctx, ctrl, eng, v)
		}
		if err != nil {
			return err
		}
	}
	return fmt.Errorf("no result after %d actions", maxActions)
}

func partyTurn(ctx context.Context, ctrl *controller.Controller, v controller.View) error {
	for _, a := range v.Abilities {
		if a.Used {
			continue
		}
		switch a.Kind {
		case models.Kick:
			if v.Status.Trouble < models.TroubleLimit-1 || !hasTrouble(v.State.HouseGuests) {
				continue
			}
		case models.ManualReshuffle, models.Peek:
			continue
		}
		res, err := ctrl.UseAbility(ctx, a.Kind, a.Guest.ID)
		if err != nil || res.OK() {
			return err
		}
	}

	if v.Status.Trouble >= models.TroubleLimit-1 || len(v.Pool) == 0 {
		return ctrl.EndRound(ctx)
	}
	return ctrl.OpenDoor(ctx)
}

func hasTrouble(house []*models.GuestInstance) bool {
	for _, g := range house {
		if g.Trouble > 0 {
			return true
		}
	}
	return false
}

func shopTurn(ctx context.Context, ctrl *controller.Controller, eng *engine.Engine, v controller.View) error {
	st := v.State
	for _, item := range v.Shop {
		if item.Def.IsStar() && item.Affordable {
			ctrl.Buy(item.Def.Key)
			return nil
		}
	}
	if st.HouseCapacity < maxCapacityAI && st.Cash >= v.UpgradeCost {
		ctrl.Upgrade()
		return nil
	}
	// Save up for stars once the house is big enough.
	if st.HouseCapacity >= 8 {
		return ctrl.NextRound(ctx)
	}
	var pick string
	best := 0
	for _, item := range v.Shop {
		if item.SoldOut || !item.Affordable || item.Def.Trouble > 0 {
			continue
		}
		if score := item.Def.Popularity + 2*item.Def.Cash; score > best && eng.CanPurchase(item.Def.Key) {
			pick, best = item.Def.Key, score
		}
	}
	if pick != "" {
		ctrl.Buy(pick)
		return nil
	}
	return ctrl.NextRound(ctx)
}
