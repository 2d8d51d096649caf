package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RegistryType string `json:"registry_type"`
	Root         string `json:"root"`
	Packaging    bool   `json:"packaging"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regType := "unknown"
	root := ""
	if s.reg != nil {
		regType = "registry"
		if comp, ok := s.reg.(introspection.Component); ok {
			regType = comp.ComponentType()
		}
		root = s.reg.Root()
	}

	return ServiceState{
		RegistryType: regType,
		Root:         root,
		Packaging:    s.packager != nil,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
