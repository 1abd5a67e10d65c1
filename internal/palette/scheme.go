package palette

import (
	"fmt"
	"strings"
	"sync"
)

// Scheme is a named four-color palette. Values are immutable by convention:
// configurations reference a scheme and never edit it in place.
type Scheme struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Primary    Color  `json:"primary"`
	Secondary  Color  `json:"secondary"`
	Accent     Color  `json:"accent"`
	Background Color  `json:"background"`
}

// NewScheme parses four hex colors into a scheme whose ID is derived from name.
func NewScheme(name, primary, secondary, accent, background string) (Scheme, error) {
	if strings.TrimSpace(name) == "" {
		return Scheme{}, fmt.Errorf("palette: scheme name is empty")
	}
	s := Scheme{ID: Slug(name), Name: name}
	for _, f := range []struct {
		dst *Color
		hex string
	}{
		{&s.Primary, primary},
		{&s.Secondary, secondary},
		{&s.Accent, accent},
		{&s.Background, background},
	} {
		c, err := ParseHex(f.hex)
		if err != nil {
			return Scheme{}, fmt.Errorf("scheme %s: %w", name, err)
		}
		*f.dst = c
	}
	return s, nil
}

func mustScheme(name, primary, secondary, accent, background string) Scheme {
	s, err := NewScheme(name, primary, secondary, accent, background)
	if err != nil {
		panic(err)
	}
	return s
}

// Built-in schemes.
var (
	Default  = mustScheme("Default", "#28a809", "#e6053a", "#d17305", "#0e0e0e")
	Electric = mustScheme("Electric", "#00ffff", "#ff00ff", "#ffff00", "#000033")
	Fire     = mustScheme("Fire", "#ff4500", "#ffd700", "#ff6347", "#1a0000")
	Arctic   = mustScheme("Arctic", "#87ceeb", "#4682b4", "#b0c4de", "#001122")
)

func Builtins() []Scheme {
	return []Scheme{Default, Electric, Fire, Arctic}
}

// Slug lowercases name and joins words with '-'.
func Slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}

// Registry holds built-in and user-defined schemes keyed by ID.
type Registry struct {
	mu      sync.RWMutex
	schemes map[string]Scheme
	order   []string
}

func NewRegistry() *Registry {
	r := &Registry{schemes: make(map[string]Scheme)}
	for _, s := range Builtins() {
		r.schemes[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

func (r *Registry) Add(s Scheme) error {
	if s.ID == "" {
		s.ID = Slug(s.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemes[s.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateScheme, s.Name)
	}
	r.schemes[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

// Get looks a scheme up by ID or display name.
func (r *Registry) Get(name string) (Scheme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.schemes[Slug(name)]; ok {
		return s, nil
	}
	return Scheme{}, fmt.Errorf("%w: %s", ErrUnknownScheme, name)
}

// List returns schemes in insertion order.
func (r *Registry) List() []Scheme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Scheme, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.schemes[id])
	}
	return out
}

func (r *Registry) Names() []string {
	list := r.List()
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
	}
	return names
}

// Next returns the scheme after id in insertion order, wrapping around.
func (r *Registry) Next(id string) Scheme {
	list := r.List()
	for i, s := range list {
		if s.ID == id {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}
