package engine

import (
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/tatianab/party-house/internal/models"
)

// generateShopPool picks two buyable star types, then fills the remaining
// slots from every other buyable type. The result is fixed for the game.
func (e *Engine) generateShopPool() []string {
	var stars, others []string
	for _, key := range e.catalog.Keys() {
		d, _ := e.catalog.Get(key)
		if d.Starter {
			continue
		}
		if d.IsStar() {
			stars = append(stars, key)
		} else {
			others = append(others, key)
		}
	}

	pool := sample(e.rng, stars, models.ShopStarSlots)
	for _, s := range stars {
		if !slices.Contains(pool, s) {
			others = append(others, s)
		}
	}
	pool = append(pool, sample(e.rng, others, models.ShopSize-len(pool))...)
	e.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}

// sample draws up to n distinct entries uniformly without replacement.
func sample(rng Rand, from []string, n int) []string {
	c := append([]string(nil), from...)
	n = min(n, len(c))
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(c)-i)
		c[i], c[j] = c[j], c[i]
	}
	return c[:n]
}

// ShopPool returns the game's shop offer.
func (e *Engine) ShopPool() []string {
	return append([]string(nil), e.state.ShopPool...)
}

// PurchaseCount is how many copies of key have been bought this game.
func (e *Engine) PurchaseCount(key string) int {
	return e.state.PurchaseCounts[key]
}

// CanPurchase reports whether key is in the shop and below its copy limit.
// It does not consider affordability.
func (e *Engine) CanPurchase(key string) bool {
	if !slices.Contains(e.state.ShopPool, key) {
		return false
	}
	d, ok := e.catalog.Get(key)
	if !ok {
		return false
	}
	return d.IsStar() || e.state.PurchaseCounts[key] < models.MaxNonStarCopies
}

// Affordable reports whether the player has the popularity to buy key.
func (e *Engine) Affordable(key string) bool {
	d, ok := e.catalog.Get(key)
	return ok && e.state.Popularity >= d.Cost
}

func (e *Engine) shopGuard() Reason {
	if e.state.Over() {
		return ReasonGameOver
	}
	if e.state.IsPartyPhase() {
		return ReasonWrongPhase
	}
	return ReasonNone
}

// Buy adds a copy of key to the owned pool for its popularity cost.
func (e *Engine) Buy(key string) PurchaseResult {
	res := PurchaseResult{Key: key}
	if r := e.shopGuard(); r != ReasonNone {
		res.Reason = r
		return res
	}
	d, ok := e.catalog.Get(key)
	if !ok || !slices.Contains(e.state.ShopPool, key) {
		res.Reason = ReasonNotInShop
		return res
	}
	res.Cost = d.Cost
	if !d.IsStar() && e.state.PurchaseCounts[key] >= models.MaxNonStarCopies {
		res.Reason = ReasonPurchaseLimitReached
		return res
	}
	if e.state.Popularity < d.Cost {
		res.Reason = ReasonInsufficientFunds
		return res
	}

	e.state.Popularity -= d.Cost
	e.state.OwnedGuests = append(e.state.OwnedGuests, key)
	e.state.PurchaseCounts[key]++
	e.logger().WithFields(logrus.Fields{
		"guest": key,
		"cost":  d.Cost,
		"count": e.state.PurchaseCounts[key],
	}).Info("guest bought")
	return res
}

// UpgradeCost is the cash price of the next capacity upgrade.
func (e *Engine) UpgradeCost() int {
	return min(models.BaseUpgradeCost+e.state.Upgrades, models.MaxUpgradeCost)
}

// UpgradeCapacity buys one more house slot with cash.
func (e *Engine) UpgradeCapacity() PurchaseResult {
	res := PurchaseResult{Key: "capacity", Cost: e.UpgradeCost()}
	if r := e.shopGuard(); r != ReasonNone {
		res.Reason = r
		return res
	}
	if e.state.HouseCapacity >= models.MaxCapacity {
		res.Reason = ReasonCapacityMaxed
		return res
	}
	if e.state.Cash < res.Cost {
		res.Reason = ReasonInsufficientFunds
		return res
	}

	e.state.Cash -= res.Cost
	e.state.HouseCapacity++
	e.state.Upgrades++
	e.logger().WithFields(logrus.Fields{
		"capacity": e.state.HouseCapacity,
		"cost":     res.Cost,
	}).Info("capacity upgraded")
	return res
}
