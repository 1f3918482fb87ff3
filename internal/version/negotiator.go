// Package version implements version negotiation: extracting an opaque
// API version token from an inbound request according to a configured
// scheme.
//
// Two schemes are supported. The header scheme reads a designated
// request header (Accept by default) and uses its raw value as the
// token; an absent header negotiates the wildcard. The path scheme
// reads a leading /vN/ path segment, uses it as the token, and strips
// it from the path before pattern matching.
//
// The scheme is chosen once when the negotiator is constructed and
// applies to every route dispatched through it.
package version

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/vyrodovalexey/versionator/internal/util"
)

// Scheme identifies a version negotiation strategy.
type Scheme string

// Supported schemes.
const (
	SchemeHeader Scheme = "header"
	SchemePath   Scheme = "path"
)

// DefaultHeader is the request header consulted by the header scheme
// when no other header is configured.
const DefaultHeader = "Accept"

// Wildcard is the unversioned token used when a request carries no
// version information.
const Wildcard = "*/*"

// Result carries the outcome of negotiation. Path is the request path
// with the version segment stripped; for the header scheme it is the
// original path unchanged.
type Result struct {
	Version string
	Path    string
}

// Negotiator extracts a version token from a live request.
type Negotiator interface {
	// Negotiate returns the version token for the request and the
	// path to match patterns against.
	Negotiate(r *http.Request) Result

	// Scheme reports the configured scheme.
	Scheme() Scheme
}

// Option configures a negotiator.
type Option func(*options)

type options struct {
	header string
}

// WithHeader overrides the header consulted by the header scheme.
func WithHeader(name string) Option {
	return func(o *options) {
		o.header = name
	}
}

// New creates a negotiator for the given scheme. An unknown scheme is
// fatal to setup and yields util.InvalidVersioningSchemeError.
func New(scheme Scheme, opts ...Option) (Negotiator, error) {
	o := options{header: DefaultHeader}
	for _, opt := range opts {
		opt(&o)
	}

	switch scheme {
	case SchemeHeader:
		return &headerNegotiator{header: o.header}, nil
	case SchemePath:
		return &pathNegotiator{}, nil
	default:
		return nil, util.NewInvalidVersioningSchemeError(string(scheme))
	}
}

// headerNegotiator takes the raw value of a designated header as the
// version token. No media-type parameter parsing is performed.
type headerNegotiator struct {
	header string
}

// Negotiate implements Negotiator.
func (n *headerNegotiator) Negotiate(r *http.Request) Result {
	token := r.Header.Get(n.header)
	if token == "" {
		token = Wildcard
	}
	return Result{Version: token, Path: r.URL.Path}
}

// Scheme implements Negotiator.
func (n *headerNegotiator) Scheme() Scheme {
	return SchemeHeader
}

// versionSegment matches path segments of the form v1, v2, v10.
var versionSegment = regexp.MustCompile(`^v\d+$`)

// pathNegotiator reads the version from the first path segment when it
// has the form vN, and strips it so pattern matching sees the bare
// route path. Requests without a version segment negotiate the
// wildcard with the path untouched.
type pathNegotiator struct{}

// Negotiate implements Negotiator.
func (n *pathNegotiator) Negotiate(r *http.Request) Result {
	path := r.URL.Path
	trimmed := strings.TrimPrefix(path, "/")
	segment, rest, _ := strings.Cut(trimmed, "/")

	if !versionSegment.MatchString(segment) {
		return Result{Version: Wildcard, Path: path}
	}

	stripped := "/" + rest
	return Result{Version: segment, Path: stripped}
}

// Scheme implements Negotiator.
func (n *pathNegotiator) Scheme() Scheme {
	return SchemePath
}
