package harmonyclient

import (
	"net/http"
	"net/url"
	"time"

	"github.com/earthdata-go/harmony/auth"
	"github.com/earthdata-go/harmony/config"
)

// Logger represents the minimal logging interface used by the client.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client) error

// RequestOption configures an outgoing HTTP request at call time.
type RequestOption func(*http.Request) error

// WithBaseURL sets the service base URL directly, bypassing the
// environment table. Useful for tests and local deployments.
func WithBaseURL(raw string) ClientOption {
	return func(c *Client) error {
		if raw == "" {
			return ErrInvalidBaseURL
		}
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		if !u.IsAbs() {
			return ErrInvalidBaseURL
		}
		c.baseURL = u
		return nil
	}
}

// WithEnvironment targets a named Harmony deployment.
func WithEnvironment(env config.Environment) ClientOption {
	return func(c *Client) error {
		host := env.Hostname()
		if host == "" {
			return ErrUnknownEnvironment
		}
		u, err := url.Parse("https://" + host)
		if err != nil {
			return err
		}
		c.baseURL = u
		return nil
	}
}

// WithConfig applies a resolved Config: environment and HTTP timeout.
func WithConfig(cfg *config.Config) ClientOption {
	return func(c *Client) error {
		if cfg == nil {
			return nil
		}
		if err := WithEnvironment(cfg.Environment)(c); err != nil {
			return err
		}
		return WithTimeout(cfg.HTTPTimeout)(c)
	}
}

// WithCredentials authenticates requests with the given EDL credentials.
func WithCredentials(creds auth.Credentials) ClientOption {
	return func(c *Client) error {
		c.credentials = creds
		return nil
	}
}

// WithToken authenticates requests with an EDL bearer token.
func WithToken(token string) ClientOption {
	return WithCredentials(auth.Credentials{Token: token})
}

// WithBasicAuth authenticates requests with an EDL username and password.
func WithBasicAuth(username, password string) ClientOption {
	return WithCredentials(auth.Credentials{Username: username, Password: password})
}

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		if httpClient == nil {
			return ErrNilHTTPClient
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithDefaultHeader registers a header applied to every request.
func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) error {
		if key == "" {
			return nil
		}
		if c.defaultHeaders == nil {
			c.defaultHeaders = make(http.Header)
		}
		c.defaultHeaders.Add(key, value)
		return nil
	}
}

// WithRetryPolicy configures the retry behavior for retriable requests.
func WithRetryPolicy(policy RetryPolicy) ClientOption {
	return func(c *Client) error {
		c.retryPolicy = policy
		return nil
	}
}

// WithLogger registers a logger used for request lifecycle events.
func WithLogger(logger Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithTimeout sets a per-request timeout on the underlying http.Client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout <= 0 {
			return nil
		}
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
		return nil
	}
}

// Header returns a RequestOption that sets a header value.
func Header(key, value string) RequestOption {
	return func(req *http.Request) error {
		if key == "" {
			return nil
		}
		req.Header.Set(key, value)
		return nil
	}
}

// AddHeader returns a RequestOption that appends to a header value.
func AddHeader(key, value string) RequestOption {
	return func(req *http.Request) error {
		if key == "" {
			return nil
		}
		req.Header.Add(key, value)
		return nil
	}
}
