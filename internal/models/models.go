package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Property is a numeric guest attribute that effects can change.
type Property int

const (
	Popularity Property = iota
	Cash
	Trouble
	Star
)

var propertyNames = map[Property]string{
	Popularity: "popularity",
	Cash:       "cash",
	Trouble:    "trouble",
	Star:       "star",
}

func (p Property) String() string {
	if s, ok := propertyNames[p]; ok {
		return s
	}
	return "unknown"
}

// ParseProperty maps a catalog name ("popularity", "cash", ...) to a Property.
func ParseProperty(s string) (Property, error) {
	for p, name := range propertyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", s)
}

func (p *Property) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseProperty(node.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Property) MarshalYAML() (any, error) {
	return p.String(), nil
}

// AbilityKind tags which variant an Ability is.
type AbilityKind int

const (
	AutoInvite AbilityKind = iota
	Synergy
	DancerSynergy
	ComedianSynergy
	Reshuffle
	ManualReshuffle
	Kick
	ManualInvite
	Peek
	WhiteFlag
	Modify
)

var abilityNames = map[AbilityKind]string{
	AutoInvite:      "autoInvite",
	Synergy:         "synergy",
	DancerSynergy:   "dancerSynergy",
	ComedianSynergy: "comedianSynergy",
	Reshuffle:       "reshuffle",
	ManualReshuffle: "manualReshuffle",
	Kick:            "kick",
	ManualInvite:    "manualInvite",
	Peek:            "peek",
	WhiteFlag:       "whiteFlag",
	Modify:          "modify",
}

func (k AbilityKind) String() string {
	if s, ok := abilityNames[k]; ok {
		return s
	}
	return "unknown"
}

// Manual reports whether the ability is triggered by the player rather than
// resolved when the guest joins.
func (k AbilityKind) Manual() bool {
	switch k {
	case ManualReshuffle, Kick, ManualInvite, Peek:
		return true
	}
	return false
}

func (k *AbilityKind) UnmarshalYAML(node *yaml.Node) error {
	for kind, name := range abilityNames {
		if name == node.Value {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown ability kind %q", node.Value)
}

func (k AbilityKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// ModifyTarget selects who a Modify ability applies to.
type ModifyTarget string

const (
	TargetSelf   ModifyTarget = "self"
	TargetOthers ModifyTarget = "others"
)

// Bonus is the property change granted by a satisfied synergy.
type Bonus struct {
	Property Property `yaml:"property"`
	Value    int      `yaml:"value"`
}

// Ability is one declared guest ability. Kind decides which of the remaining
// fields are meaningful.
type Ability struct {
	Kind AbilityKind `yaml:"kind"`

	// AutoInvite: restrict candidates to this category when set.
	Category string `yaml:"category,omitempty"`

	// Synergy: partner criterion and reward.
	WithCategory string `yaml:"with_category,omitempty"`
	WithName     string `yaml:"with_name,omitempty"`
	Bonus        *Bonus `yaml:"bonus,omitempty"`

	// Modify.
	Target   ModifyTarget `yaml:"target,omitempty"`
	Property Property     `yaml:"property,omitempty"`
	Value    int          `yaml:"value,omitempty"`
}

// GuestDefinition is an immutable catalog entry.
type GuestDefinition struct {
	Key         string    `yaml:"key"`
	Name        string    `yaml:"name"`
	Popularity  int       `yaml:"popularity"`
	Cash        int       `yaml:"cash"`
	Trouble     int       `yaml:"trouble"`
	Star        int       `yaml:"star"`
	Category    string    `yaml:"category"`
	Cost        int       `yaml:"cost"`
	Starter     bool      `yaml:"starter"`
	Abilities   []Ability `yaml:"abilities,omitempty"`
	Description string    `yaml:"description"`
}

// IsStar reports whether the guest counts toward the win condition.
func (d GuestDefinition) IsStar() bool {
	return d.Star > 0
}

// Has reports whether the definition declares an ability of the given kind.
func (d GuestDefinition) Has(kind AbilityKind) bool {
	for _, a := range d.Abilities {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// GuestInstance is a guest in play. Attribute values start as copies of the
// definition and may diverge through effects.
type GuestInstance struct {
	ID         string
	Def        *GuestDefinition
	Popularity int
	Cash       int
	Trouble    int
	Star       int
}

// Key returns the guest type key.
func (g *GuestInstance) Key() string {
	return g.Def.Key
}

func (g *GuestInstance) Name() string {
	return g.Def.Name
}

// Has reports whether the guest's type declares an ability of the given kind.
func (g *GuestInstance) Has(kind AbilityKind) bool {
	return g.Def.Has(kind)
}

// Get reads a property value.
func (g *GuestInstance) Get(p Property) int {
	switch p {
	case Popularity:
		return g.Popularity
	case Cash:
		return g.Cash
	case Trouble:
		return g.Trouble
	case Star:
		return g.Star
	}
	return 0
}

// Set overwrites a property value.
func (g *GuestInstance) Set(p Property, v int) {
	switch p {
	case Popularity:
		g.Popularity = v
	case Cash:
		g.Cash = v
	case Trouble:
		g.Trouble = v
	case Star:
		g.Star = v
	}
}

// Apply adds delta to a property.
func (g *GuestInstance) Apply(p Property, delta int) {
	g.Set(p, g.Get(p)+delta)
}

// Clone returns an independent copy sharing the immutable definition.
func (g *GuestInstance) Clone() *GuestInstance {
	c := *g
	return &c
}

// Modification changes one property of one admitted guest.
type Modification struct {
	InstanceID string
	Property   Property
	Delta      int
}

// EffectSet is what resolving a guest's abilities asks the engine to do.
type EffectSet struct {
	Invites        []string // guest type keys to try to admit
	Reshuffle      bool
	Modifications  []Modification
	RecountDancers bool
}

// Merge folds other into e.
func (e *EffectSet) Merge(other EffectSet) {
	e.Invites = append(e.Invites, other.Invites...)
	e.Reshuffle = e.Reshuffle || other.Reshuffle
	e.Modifications = append(e.Modifications, other.Modifications...)
	e.RecountDancers = e.RecountDancers || other.RecountDancers
}

// Empty reports whether the set asks for nothing.
func (e EffectSet) Empty() bool {
	return len(e.Invites) == 0 && !e.Reshuffle && len(e.Modifications) == 0 && !e.RecountDancers
}
