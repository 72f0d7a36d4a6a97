package flavour

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tehbilly/intellij-markdown/pkg/render"
)

const (
	NameCommonMark = "commonmark"
	NameGFM        = "gfm"

	// Default is the flavour used when none is requested.
	Default = NameGFM
)

// ErrUnknownFlavour is returned when a flavour name is not registered.
var ErrUnknownFlavour = errors.New("unknown flavour")

// Flavour is a named set of render strategies.
type Flavour interface {
	Name() string
	render.StrategyBuilder
}

// Registry manages the available flavours.
type Registry struct {
	mu       sync.RWMutex
	flavours map[string]Flavour
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		flavours: make(map[string]Flavour),
	}
}

// Register adds a flavour to the registry.
// If a flavour with the same name exists, it is overwritten.
func (r *Registry) Register(f Flavour) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flavours[strings.ToLower(f.Name())] = f
}

// Lookup finds a flavour by name, ignoring case. An empty name selects Default.
func (r *Registry) Lookup(name string) (Flavour, error) {
	if name == "" {
		name = Default
	}
	r.mu.RLock()
	f, ok := r.flavours[strings.ToLower(name)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlavour, name)
	}
	return f, nil
}

// Names returns the registered flavour names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.flavours))
	for name := range r.flavours {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var std = NewRegistry()

func init() {
	std.Register(CommonMark())
	std.Register(GFM())
}

// Register adds a flavour to the process-wide registry.
func Register(f Flavour) { std.Register(f) }

// Lookup finds a flavour in the process-wide registry.
func Lookup(name string) (Flavour, error) { return std.Lookup(name) }

// Names lists the flavours of the process-wide registry.
func Names() []string { return std.Names() }

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return std }
