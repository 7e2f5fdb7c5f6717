package registry

import (
	"fmt"
	"log/slog"
)

// RegisterTemplate stores a named snippet fragment. The execution engine
// prepends a template's source to a request's snippet when the request
// names one.
func (r *Registry) RegisterTemplate(name, source string) {
	if _, exists := r.templates[name]; exists {
		panic(fmt.Sprintf("snippet template '%s' already registered", name))
	}
	slog.Debug("Registering snippet template.", "name", name, "bytes", len(source))
	r.templates[name] = source
}

// Template returns the source of a named template.
func (r *Registry) Template(name string) (string, bool) {
	src, ok := r.templates[name]
	return src, ok
}
