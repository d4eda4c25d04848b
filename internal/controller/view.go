package controller

import (
	"github.com/tatianab/party-house/internal/engine"
	"github.com/tatianab/party-house/internal/models"
)

// ShopItem is one shop offer as the player sees it.
type ShopItem struct {
	Def        models.GuestDefinition
	Bought     int
	SoldOut    bool
	Affordable bool
}

// PoolEntry is an available guest type and how many copies remain.
type PoolEntry struct {
	Def   models.GuestDefinition
	Count int
}

// AbilityButton is a manual ability an admitted guest can trigger now.
type AbilityButton struct {
	Guest *models.GuestInstance
	Kind  models.AbilityKind
	Used  bool
}

// View is a read-only snapshot for presentation.
type View struct {
	State       models.GameState
	Status      engine.Status
	Pool        []PoolEntry
	Shop        []ShopItem
	Abilities   []AbilityButton
	UpgradeCost int
	WinStreak   int
}

// View snapshots the current game.
func (c *Controller) View() View {
	s := c.eng.State()
	catalog := c.eng.Catalog()
	v := View{
		State:       s,
		Status:      c.eng.Status(),
		UpgradeCost: c.eng.UpgradeCost(),
		WinStreak:   c.winStreak,
	}

	counts := c.eng.AvailableCounts()
	for _, key := range catalog.Keys() {
		if n := counts[key]; n > 0 {
			d, _ := catalog.Get(key)
			v.Pool = append(v.Pool, PoolEntry{Def: d, Count: n})
		}
	}

	for _, key := range s.ShopPool {
		d, _ := catalog.Get(key)
		v.Shop = append(v.Shop, ShopItem{
			Def:        d,
			Bought:     s.PurchaseCounts[key],
			SoldOut:    !c.eng.CanPurchase(key),
			Affordable: c.eng.Affordable(key),
		})
	}

	if s.IsPartyPhase() && !s.Over() {
		for _, g := range s.HouseGuests {
			for _, a := range g.Def.Abilities {
				if !a.Kind.Manual() {
					continue
				}
				v.Abilities = append(v.Abilities, AbilityButton{
					Guest: g,
					Kind:  a.Kind,
					Used:  c.eng.AbilitySpent(g.ID, a.Kind),
				})
			}
		}
	}
	return v
}
