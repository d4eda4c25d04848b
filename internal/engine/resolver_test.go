package engine

import (
	"testing"

	"github.com/tatianab/party-house/internal/models"
)

func admitted(t *testing.T, c *models.Catalog, key, id string) *models.GuestInstance {
	t.Helper()
	g, err := c.Instantiate(key)
	if err != nil {
		t.Fatalf("Instantiate(%q) failed: %v", key, err)
	}
	g.ID = id
	return g
}

func TestResolveEmptyPool(t *testing.T) {
	c := models.DefaultCatalog()
	celeb := admitted(t, c, "celebrity", "g1")

	effects := Resolve(celeb, nil, nil, c, firstRand{})
	if !effects.Empty() {
		t.Errorf("Expected no effects with an empty pool, got %+v", effects)
	}
}

func TestResolveAutoInviteSkipsPresentTypes(t *testing.T) {
	c := models.DefaultCatalog()
	basic := admitted(t, c, "basic", "g1")
	celeb := admitted(t, c, "celebrity", "g2")
	house := []*models.GuestInstance{basic, celeb}

	effects := Resolve(celeb, house, []string{"basic", "troublemaker", "rich"}, c, firstRand{})
	if len(effects.Invites) != 1 || effects.Invites[0] != "rich" {
		t.Errorf("Expected an invite for rich, got %v", effects.Invites)
	}
}

func TestResolveCombinesAbilities(t *testing.T) {
	c, err := models.NewCatalog([]models.GuestDefinition{
		{Key: "mc", Name: "MC", Category: "mc", Abilities: []models.Ability{
			{Kind: models.AutoInvite},
			{Kind: models.Synergy, WithName: "DJ", Bonus: &models.Bonus{Property: models.Cash, Value: 3}},
			{Kind: models.Reshuffle},
			{Kind: models.DancerSynergy},
		}},
		{Key: "dj", Name: "DJ", Category: "music"},
		{Key: "fan", Name: "Fan", Category: "basic"},
	})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	dj := admitted(t, c, "dj", "g1")
	mc := admitted(t, c, "mc", "g2")

	effects := Resolve(mc, []*models.GuestInstance{dj, mc}, []string{"fan"}, c, firstRand{})

	if len(effects.Invites) != 1 || effects.Invites[0] != "fan" {
		t.Errorf("Expected fan invite, got %v", effects.Invites)
	}
	if len(effects.Modifications) != 1 {
		t.Fatalf("Expected one synergy modification, got %d", len(effects.Modifications))
	}
	m := effects.Modifications[0]
	if m.InstanceID != "g2" || m.Property != models.Cash || m.Delta != 3 {
		t.Errorf("Unexpected modification: %+v", m)
	}
	if !effects.Reshuffle || !effects.RecountDancers {
		t.Errorf("Expected reshuffle and dancer recount flags, got %+v", effects)
	}
}

func TestResolveSynergyIgnoresSelf(t *testing.T) {
	c := models.DefaultCatalog()
	inf := admitted(t, c, "influencer", "g1")

	effects := Resolve(inf, []*models.GuestInstance{inf}, nil, c, firstRand{})
	if len(effects.Modifications) != 0 {
		t.Errorf("Expected no synergy bonus from self, got %+v", effects.Modifications)
	}
}

func TestResolvePassiveAndManualKinds(t *testing.T) {
	c := models.DefaultCatalog()
	for _, key := range []string{"dog", "bouncer", "driver", "watchdog", "grillmaster", "comedian", "basic"} {
		g := admitted(t, c, key, "g1")
		if effects := Resolve(g, []*models.GuestInstance{g}, []string{"basic"}, c, firstRand{}); !effects.Empty() {
			t.Errorf("%s: expected no join effects, got %+v", key, effects)
		}
	}
}

func TestEffectSetMerge(t *testing.T) {
	a := models.EffectSet{Invites: []string{"basic"}}
	a.Merge(models.EffectSet{
		Invites:       []string{"rich"},
		Reshuffle:     true,
		Modifications: []models.Modification{{InstanceID: "g1", Property: models.Star, Delta: 1}},
	})

	if len(a.Invites) != 2 || !a.Reshuffle || len(a.Modifications) != 1 || a.RecountDancers {
		t.Errorf("Unexpected merge result: %+v", a)
	}
}
