package module

import "aarcnorm/internal/services/api/collection/domain"

// Ports is the collection port set; other modules reach it with module.MustPortsOf
type Ports struct {
	Query    domain.QueryPort
	Reloader domain.ReloaderPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
