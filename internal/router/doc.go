// Package router implements the version-aware route registry and
// resolver at the heart of the gateway.
//
// The registry stores handler bindings keyed by (pattern, version,
// method) and derives a read-optimized grouped view from the flat
// store. Registration happens single-threaded during setup; the view is
// republished through an atomic pointer after every registration, so
// request-time resolution is a lock-free read that is safe for
// unbounded concurrent readers.
//
// # Registration
//
//	reg := router.NewRegistry(router.WithLogger(logger))
//	err := reg.Register("/widgets", "widgets", handler,
//	    router.WithMethods(http.MethodGet),
//	    router.WithVersion("v1"),
//	)
//
// # Resolution
//
// Resolution runs pattern, then version, then method lookup, in that
// strict order:
//
//	binding, err := reg.Resolve("/widgets", "v1", http.MethodGet)
//
// Failures are typed: util.RouteNotFoundError when the pattern has no
// bindings, util.VersionNotSupportedError when the version token has no
// exact match under the pattern, and util.MethodNotSupportedError when
// neither the request method nor an ANY binding exists in the
// (pattern, version) group.
package router
