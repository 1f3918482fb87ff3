package router

import (
	"net/http"
	"strings"
)

// MethodAny is the sentinel method matching every HTTP verb not
// otherwise registered for the same (pattern, version).
const MethodAny = "ANY"

// VersionWildcard is the unversioned token. Requests that carry no
// version information negotiate against this bucket.
const VersionWildcard = "*/*"

// Binding associates a (pattern, version, method set) triple with a
// single handler. Endpoint is the unique identifier derived from the
// caller-supplied base name and the version token.
type Binding struct {
	Pattern  string
	Endpoint string
	Version  string
	Methods  []string
	Handler  http.Handler
}

// HandlesMethod reports whether the binding was registered for the
// given method.
func (b *Binding) HandlesMethod(method string) bool {
	for _, m := range b.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// endpointIDReplacer folds version token characters that are not valid
// in an identifier into underscores.
var endpointIDReplacer = strings.NewReplacer(
	".", "_",
	"/", "_",
	";", "_",
	"=", "_",
	"+", "_",
	"*", "_",
)

// EndpointID derives the unique endpoint identifier for a base name
// registered under a version. The version is folded into the
// identifier so the same handler base registered for multiple versions
// does not collide.
func EndpointID(base, version string) string {
	return base + "_" + endpointIDReplacer.Replace(version)
}
