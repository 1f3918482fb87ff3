package router

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vyrodovalexey/versionator/internal/observability"
	"github.com/vyrodovalexey/versionator/internal/util"
)

// bindingKey is the composite key for the flat binding store.
type bindingKey struct {
	pattern string
	version string
	method  string
}

// View is the grouped, read-optimized form of the registry:
// pattern → version → method → binding. A View is never mutated after
// publication; registration builds a fresh one and swaps it in.
type View map[string]map[string]map[string]*Binding

// Registry accumulates handler bindings during application setup and
// exposes the grouped view used for request-time resolution. It is
// populated single-threaded before dispatch begins; Resolve and View
// are safe for unbounded concurrent readers.
type Registry struct {
	mu        sync.Mutex
	bindings  map[bindingKey]*Binding
	endpoints map[string]*Binding
	view      atomic.Pointer[View]
	logger    observability.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration records.
func WithLogger(logger observability.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		bindings:  make(map[bindingKey]*Binding),
		endpoints: make(map[string]*Binding),
		logger:    observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	empty := make(View)
	r.view.Store(&empty)
	return r
}

// RouteOption configures a single registration.
type RouteOption func(*routeOptions)

type routeOptions struct {
	methods []string
	version string
}

// WithMethods restricts the registration to the given HTTP methods.
// Without it the registration binds the ANY sentinel.
func WithMethods(methods ...string) RouteOption {
	return func(o *routeOptions) {
		o.methods = methods
	}
}

// WithVersion tags the registration with a version token. Without it
// the registration lands in the wildcard bucket.
func WithVersion(version string) RouteOption {
	return func(o *routeOptions) {
		o.version = version
	}
}

// Register stores a handler binding for the pattern under the version
// and methods carried by the options. For each method, the binding is
// stored under (pattern, version, method); a later registration for an
// identical key overwrites the earlier one. The grouped view is rebuilt
// and republished before Register returns.
func (r *Registry) Register(pattern, endpoint string, handler http.Handler, opts ...RouteOption) error {
	o := routeOptions{version: VersionWildcard}
	for _, opt := range opts {
		opt(&o)
	}
	return r.register(pattern, endpoint, handler, o.methods, o.version)
}

// RouteDef describes one route in a batch registration.
type RouteDef struct {
	Pattern  string
	Endpoint string
	Handler  http.Handler
	Methods  []string
}

// RegisterRoutes registers a list of routes under a single version.
func (r *Registry) RegisterRoutes(version string, routes []RouteDef) error {
	for _, def := range routes {
		if err := r.register(def.Pattern, def.Endpoint, def.Handler, def.Methods, version); err != nil {
			return err
		}
	}
	return nil
}

// RegisterVersions registers multiple API versions, each carrying its
// own route list. Equivalent to repeated RegisterRoutes calls.
func (r *Registry) RegisterVersions(versions map[string][]RouteDef) error {
	for version, routes := range versions {
		if err := r.RegisterRoutes(version, routes); err != nil {
			return err
		}
	}
	return nil
}

// register validates and stores one binding, then republishes the view.
func (r *Registry) register(pattern, endpoint string, handler http.Handler, methods []string, version string) error {
	if pattern == "" {
		return util.NewConfigError("pattern", "route pattern must not be empty")
	}
	if endpoint == "" {
		return util.NewConfigError("endpoint", "endpoint base must not be empty")
	}
	if handler == nil {
		return util.NewConfigError("handler", "handler must not be nil")
	}
	if version == "" {
		version = VersionWildcard
	}

	if len(methods) == 0 {
		methods = []string{MethodAny}
	}
	normalized := make([]string, len(methods))
	for i, m := range methods {
		if m == "" {
			return util.NewConfigError("methods", "method must not be empty")
		}
		normalized[i] = strings.ToUpper(m)
	}

	binding := &Binding{
		Pattern:  pattern,
		Endpoint: EndpointID(endpoint, version),
		Version:  version,
		Methods:  normalized,
		Handler:  handler,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, method := range normalized {
		r.bindings[bindingKey{pattern: pattern, version: version, method: method}] = binding
		r.logger.Info("registering route",
			observability.String("pattern", pattern),
			observability.String("method", method),
			observability.String("version", version),
			observability.String("endpoint", binding.Endpoint),
		)
	}
	r.endpoints[binding.Endpoint] = binding

	r.publishView()
	return nil
}

// publishView rebuilds the grouped view from the flat store and swaps
// it in. Callers must hold r.mu.
func (r *Registry) publishView() {
	view := make(View)
	for key, binding := range r.bindings {
		versions, ok := view[key.pattern]
		if !ok {
			versions = make(map[string]map[string]*Binding)
			view[key.pattern] = versions
		}
		methods, ok := versions[key.version]
		if !ok {
			methods = make(map[string]*Binding)
			versions[key.version] = methods
		}
		methods[key.method] = binding
	}
	r.view.Store(&view)
}

// View returns the current grouped view. The returned map must be
// treated as read-only.
func (r *Registry) View() View {
	return *r.view.Load()
}

// Resolve looks up the single applicable binding for a triple, in
// strict order: pattern, then version, then method. The ANY fallback is
// consulted only within the exact (pattern, version) group, so a method
// available under one version never leaks into another.
func (r *Registry) Resolve(pattern, version, method string) (*Binding, error) {
	view := *r.view.Load()

	versions, ok := view[pattern]
	if !ok {
		return nil, util.NewRouteNotFoundError(pattern)
	}

	methods, ok := versions[version]
	if !ok {
		return nil, util.NewVersionNotSupportedError(pattern, version)
	}

	if binding, ok := methods[strings.ToUpper(method)]; ok {
		return binding, nil
	}
	if binding, ok := methods[MethodAny]; ok {
		return binding, nil
	}
	return nil, util.NewMethodNotSupportedError(pattern, version, method)
}

// Endpoint returns the binding registered under an endpoint identifier.
func (r *Registry) Endpoint(id string) (*Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	binding, ok := r.endpoints[id]
	if !ok {
		return nil, util.NewUnknownEndpointError(id)
	}
	return binding, nil
}

// Bindings returns all distinct registered bindings, sorted by
// endpoint identifier, for diagnostics and introspection.
func (r *Registry) Bindings() []*Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Binding, 0, len(r.endpoints))
	for _, binding := range r.endpoints {
		out = append(out, binding)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Endpoint < out[j].Endpoint
	})
	return out
}

// Patterns returns the distinct registered patterns, sorted.
func (r *Registry) Patterns() []string {
	view := *r.view.Load()
	out := make([]string, 0, len(view))
	for pattern := range view {
		out = append(out, pattern)
	}
	sort.Strings(out)
	return out
}
