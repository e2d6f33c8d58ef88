package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earthdata-go/harmony/auth"
)

type captureTransport struct {
	req *http.Request
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.req = req
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusOK)
	return rec.Result(), nil
}

func TestTrustedHost(t *testing.T) {
	assert.True(t, auth.TrustedHost("harmony.uat.earthdata.nasa.gov"))
	assert.True(t, auth.TrustedHost("urs.earthdata.nasa.gov"))
	assert.True(t, auth.TrustedHost("harmony.earthdata.nasa.gov:443"))
	assert.False(t, auth.TrustedHost("example.com"))
	assert.False(t, auth.TrustedHost("evil-earthdata.nasa.gov"))
}

func TestBearerTokenTrusted(t *testing.T) {
	capture := &captureTransport{}
	transport := &auth.BearerTokenTransport{Token: "abc", Base: capture}

	req, err := http.NewRequest(http.MethodGet, "https://harmony.earthdata.nasa.gov/jobs", nil)
	require.NoError(t, err)
	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer abc", capture.req.Header.Get("Authorization"))
}

func TestBearerTokenUntrusted(t *testing.T) {
	capture := &captureTransport{}
	transport := &auth.BearerTokenTransport{Token: "abc", Base: capture}

	req, err := http.NewRequest(http.MethodGet, "https://example.com/data.nc", nil)
	require.NoError(t, err)
	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, capture.req.Header.Get("Authorization"))
}

func TestEDLStripsAuthOnUntrustedRedirectHop(t *testing.T) {
	capture := &captureTransport{}
	transport := &auth.EDLTransport{Username: "user", Password: "pass", Base: capture}

	req, err := http.NewRequest(http.MethodGet, "https://cdn.example.com/file", nil)
	require.NoError(t, err)
	// Simulates a redirect hop where the client carried the header over.
	req.Header.Set("Authorization", "Basic c3RhbGU=")

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, capture.req.Header.Get("Authorization"))
}

func TestEDLBasicAuthTrusted(t *testing.T) {
	capture := &captureTransport{}
	transport := &auth.EDLTransport{Username: "user", Password: "pass", Base: capture}

	req, err := http.NewRequest(http.MethodGet, "https://urs.earthdata.nasa.gov/oauth", nil)
	require.NoError(t, err)
	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	user, pass, ok := capture.req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "user", user)
	assert.Equal(t, "pass", pass)
}

func TestCredentialsTransportPrecedence(t *testing.T) {
	creds := auth.Credentials{Token: "tok", Username: "user", Password: "pass"}
	_, ok := creds.Transport(nil).(*auth.BearerTokenTransport)
	assert.True(t, ok)

	creds = auth.Credentials{Username: "user", Password: "pass"}
	_, ok = creds.Transport(nil).(*auth.EDLTransport)
	assert.True(t, ok)

	assert.Nil(t, auth.Credentials{}.Transport(nil))
	assert.True(t, auth.Credentials{}.Empty())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("EDL_TOKEN", "tok")
	t.Setenv("EDL_USERNAME", "")
	t.Setenv("EDL_PASSWORD", "")

	creds := auth.FromEnv()
	assert.Equal(t, "tok", creds.Token)
	assert.False(t, creds.Empty())
}
