package engine

import (
	"fmt"

	"github.com/tatianab/party-house/internal/models"
)

// CheckInvariants verifies the structural rules every reachable state obeys.
func CheckInvariants(s models.GameState, catalog *models.Catalog) error {
	if len(s.HouseGuests) > s.HouseCapacity {
		return fmt.Errorf("house holds %d guests over capacity %d", len(s.HouseGuests), s.HouseCapacity)
	}
	if s.HouseCapacity < models.StartingCapacity || s.HouseCapacity > models.MaxCapacity {
		return fmt.Errorf("capacity %d out of range", s.HouseCapacity)
	}

	seen := map[string]bool{}
	for _, g := range s.HouseGuests {
		if g.ID == "" {
			return fmt.Errorf("admitted %s has no instance id", g.Key())
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate instance id %s", g.ID)
		}
		seen[g.ID] = true
	}

	if len(s.ShopPool) != models.ShopSize {
		return fmt.Errorf("shop pool has %d entries", len(s.ShopPool))
	}
	stars := 0
	inShop := map[string]bool{}
	for _, key := range s.ShopPool {
		if inShop[key] {
			return fmt.Errorf("shop pool repeats %s", key)
		}
		inShop[key] = true
		d, ok := catalog.Get(key)
		if !ok {
			return fmt.Errorf("%w: %s in shop", models.ErrUnknownGuestType, key)
		}
		if d.IsStar() {
			stars++
		}
	}
	if stars < models.ShopStarSlots {
		return fmt.Errorf("shop pool has %d star types", stars)
	}

	for key, n := range s.PurchaseCounts {
		d, ok := catalog.Get(key)
		if ok && !d.IsStar() && n > models.MaxNonStarCopies {
			return fmt.Errorf("%s bought %d times", key, n)
		}
	}

	if s.Popularity < 0 || s.Cash < 0 {
		return fmt.Errorf("negative balance: popularity %d cash %d", s.Popularity, s.Cash)
	}
	return nil
}

// CheckInvariants verifies the engine's current state.
func (e *Engine) CheckInvariants() error {
	return CheckInvariants(*e.state, e.catalog)
}
