package controller

import (
	"context"
	"strings"
	"testing"

	"github.com/tatianab/party-house/internal/engine"
	"github.com/tatianab/party-house/internal/logger"
	"github.com/tatianab/party-house/internal/models"
	"github.com/tatianab/party-house/internal/streak"
)

type firstRand struct{}

func (firstRand) IntN(int) int                { return 0 }
func (firstRand) Shuffle(int, func(i, j int)) {}

type recorder struct {
	notices []Notice
}

func (r *recorder) Notify(n Notice) { r.notices = append(r.notices, n) }

func (r *recorder) last() Notice {
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func (r *recorder) has(kind NoticeKind) bool {
	for _, n := range r.notices {
		if n.Kind == kind {
			return true
		}
	}
	return false
}

// scripted answers every prompt with pick, or cancels when ok is false.
type scripted struct {
	pick    int
	ok      bool
	prompts []string
	options [][]string
}

func (s *scripted) Choose(_ context.Context, prompt string, options []string) (int, bool) {
	s.prompts = append(s.prompts, prompt)
	s.options = append(s.options, options)
	return s.pick, s.ok
}

type fixture struct {
	eng     *engine.Engine
	ctrl    *Controller
	notes   *recorder
	chooser *scripted
	store   *streak.MemoryStore
}

func newFixture(t *testing.T, opts ...engine.Option) *fixture {
	t.Helper()
	base := []engine.Option{engine.WithRand(firstRand{}), engine.WithIDSource(&engine.SequenceIDs{})}
	eng, err := engine.NewEngine(models.DefaultCatalog(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	f := &fixture{
		eng:     eng,
		notes:   &recorder{},
		chooser: &scripted{pick: 1, ok: true},
		store:   streak.NewMemoryStore(),
	}
	f.ctrl = New(eng, f.notes, f.chooser, f.store, logger.Discard())
	if err := f.ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return f
}

func (f *fixture) admit(t *testing.T, keys ...string) []*models.GuestInstance {
	t.Helper()
	var out []*models.GuestInstance
	for _, key := range keys {
		res, err := f.eng.Admit(key)
		if err != nil || !res.OK() {
			t.Fatalf("Admit(%q) failed: %v %v", key, err, res.Reason)
		}
		out = append(out, res.Admitted[0])
	}
	return out
}

func TestStartLoadsStreak(t *testing.T) {
	f := newFixture(t)
	f.store.Set(context.Background(), 2)

	if err := f.ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got := f.ctrl.WinStreak(); got != 2 {
		t.Errorf("Expected streak 2, got %d", got)
	}
	if f.ctrl.View().WinStreak != 2 {
		t.Error("View does not carry the streak")
	}
}

func TestOpenDoor(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.OpenDoor(context.Background()); err != nil {
		t.Fatalf("OpenDoor failed: %v", err)
	}
	v := f.ctrl.View()
	if len(v.State.HouseGuests) != 1 || v.State.HouseGuests[0].Key() != "basic" {
		t.Fatalf("Expected an Old Friend in the house, got %v", v.State.HouseGuests)
	}
	if got := f.notes.last().Text; got != "Old Friend arrives." {
		t.Errorf("Unexpected notice %q", got)
	}
}

func TestOpenDoorFullHouseEndsParty(t *testing.T) {
	f := newFixture(t)
	f.admit(t, "basic", "basic", "basic", "basic", "rich")

	if err := f.ctrl.OpenDoor(context.Background()); err != nil {
		t.Fatalf("OpenDoor failed: %v", err)
	}
	v := f.ctrl.View()
	if v.State.IsPartyPhase() {
		t.Error("Expected the door on a full house to end the party")
	}
	if v.State.Popularity != 4 || v.State.Cash != 1 {
		t.Errorf("Expected 4 popularity and 1 cash, got %d and %d", v.State.Popularity, v.State.Cash)
	}
	if f.notes.last().Kind != NoticePartyEnded {
		t.Errorf("Expected party-ended notice, got %+v", f.notes.last())
	}
}

func TestWinIncrementsStreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Set(ctx, 1)
	f.ctrl.Start(ctx)
	f.admit(t, "superstar", "superstar", "alien", "alien")

	if err := f.ctrl.EndRound(ctx); err != nil {
		t.Fatalf("EndRound failed: %v", err)
	}
	if n, _ := f.store.Get(ctx); n != 2 {
		t.Errorf("Expected saved streak 2, got %d", n)
	}
	if f.notes.last().Kind != NoticeWon {
		t.Errorf("Expected win notice, got %+v", f.notes.last())
	}
	if f.ctrl.View().State.Result != models.Won {
		t.Error("Expected game won")
	}

	if err := f.ctrl.OpenDoor(ctx); err != nil {
		t.Fatalf("OpenDoor failed: %v", err)
	}
	if f.notes.last().Kind != NoticeRejected {
		t.Errorf("Expected actions after the game to be rejected, got %+v", f.notes.last())
	}
}

func TestTroubleKeepsStreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Set(ctx, 3)
	f.admit(t, "troublemaker", "troublemaker", "troublemaker")

	if err := f.ctrl.EndRound(ctx); err != nil {
		t.Fatalf("EndRound failed: %v", err)
	}
	if !f.notes.has(NoticeTrouble) {
		t.Error("Expected a trouble notice")
	}
	if n, _ := f.store.Get(ctx); n != 3 {
		t.Errorf("Trouble should not touch the streak, got %d", n)
	}
}

func TestOutOfRoundsResetsStreak(t *testing.T) {
	f := newFixture(t, engine.WithMaxRounds(1))
	ctx := context.Background()
	f.store.Set(ctx, 5)

	if err := f.ctrl.EndRound(ctx); err != nil {
		t.Fatalf("EndRound failed: %v", err)
	}
	if err := f.ctrl.NextRound(ctx); err != nil {
		t.Fatalf("NextRound failed: %v", err)
	}
	if f.notes.last().Kind != NoticeLost {
		t.Errorf("Expected loss notice, got %+v", f.notes.last())
	}
	if n, _ := f.store.Get(ctx); n != 0 {
		t.Errorf("Expected streak reset, got %d", n)
	}
}

func TestNextRoundRejectedDuringParty(t *testing.T) {
	f := newFixture(t)
	if err := f.ctrl.NextRound(context.Background()); err != nil {
		t.Fatalf("NextRound failed: %v", err)
	}
	if n := f.notes.last(); n.Kind != NoticeRejected || !strings.Contains(n.Text, "wrong phase") {
		t.Errorf("Expected wrong-phase rejection, got %+v", n)
	}
}

func TestForfeit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Set(ctx, 4)

	if err := f.ctrl.Forfeit(ctx); err != nil {
		t.Fatalf("Forfeit failed: %v", err)
	}
	if n, _ := f.store.Get(ctx); n != 0 {
		t.Errorf("Expected streak reset, got %d", n)
	}
	if f.ctrl.View().State.Result != models.Lost {
		t.Error("Expected game lost")
	}

	f.ctrl.Forfeit(ctx)
	if f.notes.last().Kind != NoticeRejected {
		t.Error("Expected second forfeit to be rejected")
	}
}

func TestBuyAndUpgrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.admit(t, "superstar", "superstar", "superstar", "basic", "basic")
	f.ctrl.EndRound(ctx)

	if res := f.ctrl.Buy("rockstar"); !res.OK() {
		t.Fatalf("Buy rejected: %v", res.Reason)
	}
	if got := f.notes.last().Text; got != "Bought Rockstar for 5 popularity." {
		t.Errorf("Unexpected notice %q", got)
	}
	if res := f.ctrl.Buy("dog"); res.Reason != engine.ReasonNotInShop {
		t.Errorf("Expected %v, got %v", engine.ReasonNotInShop, res.Reason)
	}
	if res := f.ctrl.Upgrade(); res.Reason != engine.ReasonInsufficientFunds {
		t.Errorf("Expected %v, got %v", engine.ReasonInsufficientFunds, res.Reason)
	}
	if f.notes.last().Kind != NoticeRejected {
		t.Error("Expected a rejection notice")
	}

	v := f.ctrl.View()
	if v.State.Popularity != 6 {
		t.Errorf("Expected 6 popularity left, got %d", v.State.Popularity)
	}
	for _, item := range v.Shop {
		if item.Def.Key == "rockstar" && item.Bought != 1 {
			t.Errorf("Expected one rockstar bought, got %d", item.Bought)
		}
	}
}

func TestKickThroughChooser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.admit(t, "bouncer", "basic", "troublemaker")
	f.chooser.pick = 2

	res, err := f.ctrl.UseAbility(ctx, models.Kick, g[0].ID)
	if err != nil {
		t.Fatalf("UseAbility failed: %v", err)
	}
	if !res.OK() || len(res.Removed) != 1 || res.Removed[0].ID != g[2].ID {
		t.Fatalf("Expected troublemaker kicked, got %+v", res)
	}
	opts := f.chooser.options[0]
	if len(opts) != 2 || opts[0] != "Old Friend" || opts[1] != "Troublemaker" {
		t.Errorf("Unexpected kick options %v", opts)
	}
}

func TestChooserCancelOrInvalid(t *testing.T) {
	tests := []struct {
		name string
		pick int
		ok   bool
	}{
		{"cancelled", 1, false},
		{"zero", 0, true},
		{"out of range", 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			g := f.admit(t, "bouncer", "basic")
			f.chooser.pick, f.chooser.ok = tt.pick, tt.ok

			res, _ := f.ctrl.UseAbility(context.Background(), models.Kick, g[0].ID)
			if res.Reason != engine.ReasonInvalidSelection {
				t.Errorf("Expected %v, got %v", engine.ReasonInvalidSelection, res.Reason)
			}
			if len(f.ctrl.View().State.HouseGuests) != 2 {
				t.Error("A cancelled kick removed a guest")
			}
		})
	}
}

func TestInviteThroughChooser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.admit(t, "driver")

	res, err := f.ctrl.UseAbility(ctx, models.ManualInvite, g[0].ID)
	if err != nil {
		t.Fatalf("UseAbility failed: %v", err)
	}
	if !res.OK() || res.Admit == nil || res.Admit.Admitted[0].Key() != "basic" {
		t.Fatalf("Expected an Old Friend invited, got %+v", res)
	}
	if opts := f.chooser.options[0]; len(opts) != 3 || opts[0] != "Old Friend (4)" {
		t.Errorf("Unexpected invite options %v", opts)
	}
	if res.Outcome != engine.OutcomeNone {
		t.Errorf("Expected party to continue, got %v", res.Outcome)
	}
}

func TestInviteFillingHouseEndsParty(t *testing.T) {
	f := newFixture(t)
	g := f.admit(t, "driver", "basic", "basic", "rich")

	res, err := f.ctrl.UseAbility(context.Background(), models.ManualInvite, g[0].ID)
	if err != nil {
		t.Fatalf("UseAbility failed: %v", err)
	}
	if res.Outcome != engine.OutcomePartyEnded {
		t.Errorf("Expected %v, got %v", engine.OutcomePartyEnded, res.Outcome)
	}
	if v := f.ctrl.View(); v.State.IsPartyPhase() {
		t.Error("Expected shop phase after a full house")
	}
}

func TestAbilityRejectedBeforePrompt(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		kind  models.AbilityKind
		opts  []engine.Option
		setup func(t *testing.T, f *fixture, holder string)
		want  engine.Reason
	}{
		{
			name: "driver already invited",
			keys: []string{"driver"},
			kind: models.ManualInvite,
			setup: func(t *testing.T, f *fixture, holder string) {
				if res, _ := f.ctrl.UseAbility(context.Background(), models.ManualInvite, holder); !res.OK() {
					t.Fatalf("First invite rejected: %v", res.Reason)
				}
			},
			want: engine.ReasonAbilityAlreadyUsed,
		},
		{
			name: "house full",
			keys: []string{"driver", "basic", "basic", "rich", "basic"},
			kind: models.ManualInvite,
			want: engine.ReasonHouseFull,
		},
		{
			name: "not a bouncer",
			keys: []string{"basic", "rich"},
			kind: models.Kick,
			want: engine.ReasonInvalidSelection,
		},
		{
			name: "bouncer already kicked",
			keys: []string{"bouncer", "basic", "rich"},
			kind: models.Kick,
			opts: []engine.Option{engine.WithKickPolicy(engine.KickOncePerInstance)},
			setup: func(t *testing.T, f *fixture, holder string) {
				if res, _ := f.ctrl.UseAbility(context.Background(), models.Kick, holder); !res.OK() {
					t.Fatalf("First kick rejected: %v", res.Reason)
				}
			},
			want: engine.ReasonAbilityAlreadyUsed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.opts...)
			g := f.admit(t, tt.keys...)
			if tt.setup != nil {
				tt.setup(t, f, g[0].ID)
			}
			prompts := len(f.chooser.prompts)

			res, err := f.ctrl.UseAbility(context.Background(), tt.kind, g[0].ID)
			if err != nil {
				t.Fatalf("UseAbility failed: %v", err)
			}
			if res.Reason != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, res.Reason)
			}
			if n := len(f.chooser.prompts); n != prompts {
				t.Errorf("Expected no prompt for a rejected ability, got %v", f.chooser.prompts[prompts:])
			}
		})
	}
}

func TestViewKickButtonFollowsPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy engine.KickPolicy
		used   bool
	}{
		{"unlimited", engine.KickUnlimited, false},
		{"once", engine.KickOncePerInstance, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, engine.WithKickPolicy(tt.policy))
			g := f.admit(t, "bouncer", "basic", "rich")
			if res, _ := f.ctrl.UseAbility(context.Background(), models.Kick, g[0].ID); !res.OK() {
				t.Fatalf("Kick rejected: %v", res.Reason)
			}

			v := f.ctrl.View()
			if len(v.Abilities) != 1 || v.Abilities[0].Kind != models.Kick {
				t.Fatalf("Expected one kick button, got %+v", v.Abilities)
			}
			if v.Abilities[0].Used != tt.used {
				t.Errorf("Kick button Used = %v, want %v", v.Abilities[0].Used, tt.used)
			}
		})
	}
}

func TestPeekAndReshuffle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.admit(t, "watchdog", "grillmaster")

	if res, _ := f.ctrl.UseAbility(ctx, models.Peek, g[0].ID); !res.OK() {
		t.Fatalf("Peek rejected: %v", res.Reason)
	}
	if !strings.Contains(f.notes.last().Text, "Old Friend is next") {
		t.Errorf("Unexpected peek notice %q", f.notes.last().Text)
	}

	if res, _ := f.ctrl.UseAbility(ctx, models.ManualReshuffle, g[1].ID); !res.OK() {
		t.Fatalf("Reshuffle rejected: %v", res.Reason)
	}
	if n := len(f.ctrl.View().State.HouseGuests); n != 0 {
		t.Errorf("Expected empty house, got %d", n)
	}

	if res, _ := f.ctrl.UseAbility(ctx, models.WhiteFlag, g[0].ID); res.Reason != engine.ReasonInvalidSelection {
		t.Errorf("Expected passive ability to be rejected, got %v", res.Reason)
	}
}

func TestViewAbilities(t *testing.T) {
	f := newFixture(t)
	g := f.admit(t, "bouncer", "watchdog", "basic")
	f.ctrl.UseAbility(context.Background(), models.Peek, g[1].ID)

	v := f.ctrl.View()
	if len(v.Abilities) != 2 {
		t.Fatalf("Expected 2 ability buttons, got %d", len(v.Abilities))
	}
	if v.Abilities[0].Kind != models.Kick || v.Abilities[0].Used {
		t.Errorf("Unexpected kick button %+v", v.Abilities[0])
	}
	if v.Abilities[1].Kind != models.Peek || !v.Abilities[1].Used {
		t.Errorf("Unexpected peek button %+v", v.Abilities[1])
	}
	if len(v.Shop) != models.ShopSize || v.UpgradeCost != models.BaseUpgradeCost {
		t.Errorf("Unexpected shop view: %d items, upgrade %d", len(v.Shop), v.UpgradeCost)
	}
	total := 0
	for _, p := range v.Pool {
		total += p.Count
	}
	if total != len(models.StartingGuests)-1 {
		t.Errorf("Expected %d guests left in the pool, got %d", len(models.StartingGuests)-1, total)
	}
}
