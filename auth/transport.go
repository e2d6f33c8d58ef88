// Package auth provides http.RoundTripper implementations for Earthdata
// Login (EDL) credentials.
//
// Requests to Harmony are redirected through EDL and back, and result
// links may point at other Earthdata hosts. Credentials must follow those
// redirects, but must never leak to hosts outside the Earthdata domain.
// Both transports here enforce that boundary per request, which covers
// redirect hops as well since the transport sees every hop.
package auth

import (
	"net/http"
	"os"
	"strings"
)

const earthdataDomain = ".earthdata.nasa.gov"

// TrustedHost reports whether credentials may be sent to host.
func TrustedHost(host string) bool {
	host = strings.ToLower(host)
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	return strings.HasSuffix(host, earthdataDomain)
}

// BearerTokenTransport injects an EDL bearer token into outgoing requests
// bound for trusted hosts.
type BearerTokenTransport struct {
	Token string
	Base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.Token != "" && TrustedHost(clone.URL.Host) {
		clone.Header.Set("Authorization", "Bearer "+t.Token)
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// EDLTransport injects basic credentials into outgoing requests bound for
// trusted hosts. Untrusted hosts get the request without an Authorization
// header even when the client followed a redirect to reach them.
type EDLTransport struct {
	Username string
	Password string
	Base     http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *EDLTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if TrustedHost(clone.URL.Host) {
		clone.SetBasicAuth(t.Username, t.Password)
	} else {
		clone.Header.Del("Authorization")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// Credentials holds resolved EDL credentials. Token takes precedence over
// username/password when both are present.
type Credentials struct {
	Token    string
	Username string
	Password string
}

// FromEnv resolves credentials from EDL_TOKEN, or EDL_USERNAME and
// EDL_PASSWORD. The zero value is returned when neither is set.
func FromEnv() Credentials {
	return Credentials{
		Token:    os.Getenv("EDL_TOKEN"),
		Username: os.Getenv("EDL_USERNAME"),
		Password: os.Getenv("EDL_PASSWORD"),
	}
}

// Empty reports whether no credentials are present.
func (c Credentials) Empty() bool {
	return c.Token == "" && c.Username == "" && c.Password == ""
}

// Transport builds a RoundTripper for the credentials, wrapping base.
// A nil RoundTripper is returned for empty credentials.
func (c Credentials) Transport(base http.RoundTripper) http.RoundTripper {
	switch {
	case c.Token != "":
		return &BearerTokenTransport{Token: c.Token, Base: base}
	case c.Username != "" || c.Password != "":
		return &EDLTransport{Username: c.Username, Password: c.Password, Base: base}
	default:
		return nil
	}
}
