package engine

import "github.com/tatianab/party-house/internal/models"

// Resolve interprets inst's abilities against the current house and the
// available pool (type keys, with multiplicity). It never mutates anything:
// invites are suggestions the caller must still fit into the house.
func Resolve(inst *models.GuestInstance, house []*models.GuestInstance, pool []string, catalog *models.Catalog, rng Rand) models.EffectSet {
	var effects models.EffectSet
	for _, a := range inst.Def.Abilities {
		effects.Merge(resolveAbility(inst, a, house, pool, catalog, rng))
	}
	return effects
}

func resolveAbility(inst *models.GuestInstance, a models.Ability, house []*models.GuestInstance, pool []string, catalog *models.Catalog, rng Rand) models.EffectSet {
	var effects models.EffectSet
	switch a.Kind {
	case models.AutoInvite:
		if key, ok := pickInvite(a, house, pool, catalog, rng); ok {
			effects.Invites = append(effects.Invites, key)
		}

	case models.Synergy:
		if a.Bonus != nil && hasPartner(inst, a, house) {
			effects.Modifications = append(effects.Modifications, models.Modification{
				InstanceID: inst.ID,
				Property:   a.Bonus.Property,
				Delta:      a.Bonus.Value,
			})
		}

	case models.DancerSynergy:
		effects.RecountDancers = true

	case models.Reshuffle:
		effects.Reshuffle = true

	case models.Modify:
		switch a.Target {
		case models.TargetSelf:
			effects.Modifications = append(effects.Modifications, models.Modification{
				InstanceID: inst.ID, Property: a.Property, Delta: a.Value,
			})
		case models.TargetOthers:
			for _, g := range house {
				if g.ID == inst.ID {
					continue
				}
				effects.Modifications = append(effects.Modifications, models.Modification{
					InstanceID: g.ID, Property: a.Property, Delta: a.Value,
				})
			}
		}

	case models.ComedianSynergy, models.ManualReshuffle, models.Kick,
		models.ManualInvite, models.Peek, models.WhiteFlag:
		// Resolved at party end, by the player, or while counting trouble.
	}

	return effects
}

// pickInvite chooses uniformly among pool entries whose type is not already
// in the house, optionally restricted to a category.
func pickInvite(a models.Ability, house []*models.GuestInstance, pool []string, catalog *models.Catalog, rng Rand) (string, bool) {
	present := make(map[string]bool, len(house))
	for _, g := range house {
		present[g.Key()] = true
	}

	var candidates []string
	for _, key := range pool {
		if present[key] {
			continue
		}
		if a.Category != "" {
			d, ok := catalog.Get(key)
			if !ok || d.Category != a.Category {
				continue
			}
		}
		candidates = append(candidates, key)
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[rng.IntN(len(candidates))], true
}

func hasPartner(self *models.GuestInstance, a models.Ability, house []*models.GuestInstance) bool {
	for _, g := range house {
		if g.ID == self.ID {
			continue
		}
		if a.WithCategory != "" && g.Def.Category == a.WithCategory {
			return true
		}
		if a.WithName != "" && g.Name() == a.WithName {
			return true
		}
	}
	return false
}
