package indicator

import (
	"sync"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// Constructor creates a fresh indicator instance at its default configuration.
type Constructor func() Indicator

// Registry manages the available indicator constructors.
type Registry interface {
	RegisterIndicator(name types.IndicatorType, constructor Constructor) error
	NewIndicator(name types.IndicatorType) (Indicator, error)
	ListIndicators() []types.IndicatorType
	RemoveIndicator(name types.IndicatorType) error
}

// RegistryV1 manages all available indicators.
type RegistryV1 struct {
	constructors map[types.IndicatorType]Constructor
	mu           sync.RWMutex
}

// NewRegistry creates a new indicator registry.
func NewRegistry() Registry {
	return &RegistryV1{
		constructors: make(map[types.IndicatorType]Constructor),
		mu:           sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry with every built-in indicator
// registered.
func NewDefaultRegistry() Registry {
	registry := NewRegistry()

	for name, constructor := range map[types.IndicatorType]Constructor{
		types.IndicatorTypeSMA:            NewSMA,
		types.IndicatorTypeEMA:            NewEMA,
		types.IndicatorTypeRSI:            NewRSI,
		types.IndicatorTypeMACD:           NewMACD,
		types.IndicatorTypeBollingerBands: NewBollingerBands,
	} {
		// Built-ins have unique names; registration cannot fail here.
		_ = registry.RegisterIndicator(name, constructor)
	}

	return registry
}

// RegisterIndicator adds an indicator constructor to the registry.
func (r *RegistryV1) RegisterIndicator(name types.IndicatorType, constructor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "RegisterIndicator: indicator with name %s already registered", name)
	}

	r.constructors[name] = constructor

	return nil
}

// NewIndicator creates a fresh instance of the named indicator. Each call
// returns a new instance, so callers can Config several copies of the same
// indicator independently.
func (r *RegistryV1) NewIndicator(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	constructor, exists := r.constructors[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "NewIndicator: indicator with name %s not found", name)
	}

	return constructor(), nil
}

// ListIndicators returns a list of all registered indicator names.
func (r *RegistryV1) ListIndicators() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}

	return names
}

// RemoveIndicator removes an indicator from the registry.
func (r *RegistryV1) RemoveIndicator(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "RemoveIndicator: indicator with name %s not found", name)
	}

	delete(r.constructors, name)

	return nil
}
