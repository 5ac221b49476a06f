// Package module is the contract api modules satisfy and the port registry main wires through
package module

import (
	"reflect"
	"sync"

	"aarcnorm/internal/modkit/httpkit"
)

// Module mounts routes and exposes a port bundle to other modules
type Module interface {
	Name() string
	Ports() any
	MountRoutes(r httpkit.Router)
}

// PortsOf finds T in m.Ports(): the bundle itself or one of its exported struct fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		if v, ok := rv.Field(i).Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code, where a missing port is a bug
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module: " + m.Name() + " does not expose " + reflect.TypeFor[T]().String())
	}
	return v
}

// registry of port bundles by module name, filled while main wires the process
var registry struct {
	sync.RWMutex
	ports map[string]any
}

// Register publishes the port bundle of a module
func Register(name string, ports any) {
	registry.Lock()
	defer registry.Unlock()
	if registry.ports == nil {
		registry.ports = map[string]any{}
	}
	registry.ports[name] = ports
}

// PortsAs returns the bundle registered under name when it is a T
func PortsAs[T any](name string) (T, bool) {
	registry.RLock()
	defer registry.RUnlock()
	v, ok := registry.ports[name].(T)
	return v, ok
}

// Reset forgets every registration
func Reset() {
	registry.Lock()
	registry.ports = nil
	registry.Unlock()
}
