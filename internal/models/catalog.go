package models

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed guests.yaml
var defaultGuestsYAML []byte

// ErrUnknownGuestType is returned when a type key has no catalog entry.
var ErrUnknownGuestType = errors.New("unknown guest type")

// Catalog is the static registry of guest types, in declaration order.
type Catalog struct {
	keys []string
	defs map[string]*GuestDefinition
}

type catalogFile struct {
	Guests []GuestDefinition `yaml:"guests"`
}

// LoadCatalog parses a YAML guest list.
func LoadCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return NewCatalog(f.Guests)
}

// NewCatalog builds a catalog from definitions, rejecting duplicates and
// malformed entries.
func NewCatalog(defs []GuestDefinition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]*GuestDefinition, len(defs))}
	for i := range defs {
		d := defs[i]
		if d.Key == "" {
			return nil, fmt.Errorf("guest %d has no key", i)
		}
		if _, dup := c.defs[d.Key]; dup {
			return nil, fmt.Errorf("duplicate guest key %q", d.Key)
		}
		if d.Star < 0 || d.Star > 1 {
			return nil, fmt.Errorf("guest %q: star must be 0 or 1, got %d", d.Key, d.Star)
		}
		for _, a := range d.Abilities {
			if a.Kind == Synergy && a.Bonus == nil {
				return nil, fmt.Errorf("guest %q: synergy without bonus", d.Key)
			}
			if a.Kind == Modify && a.Target != TargetSelf && a.Target != TargetOthers {
				return nil, fmt.Errorf("guest %q: modify target %q", d.Key, a.Target)
			}
		}
		c.keys = append(c.keys, d.Key)
		c.defs[d.Key] = &d
	}
	return c, nil
}

// DefaultCatalog returns the built-in guest catalog.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(defaultGuestsYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Get looks up a definition by type key.
func (c *Catalog) Get(key string) (GuestDefinition, bool) {
	d, ok := c.defs[key]
	if !ok {
		return GuestDefinition{}, false
	}
	return *d, true
}

// Keys lists every type key in catalog order.
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Instantiate creates an unadmitted guest of the given type. The instance has
// no ID until the engine admits it.
func (c *Catalog) Instantiate(key string) (*GuestInstance, error) {
	d, ok := c.defs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGuestType, key)
	}
	return &GuestInstance{
		Def:        d,
		Popularity: d.Popularity,
		Cash:       d.Cash,
		Trouble:    d.Trouble,
		Star:       d.Star,
	}, nil
}
