// Rate limit tiers and request-to-tier routing.

package ratelimit

import (
	"net/http"
	"time"

	"github.com/bizcanvas/bizcanvas/internal/storage"
)

// Scope defines how rate limit keys are determined.
type Scope int

const (
	// ScopeIP keys buckets by client IP address.
	ScopeIP Scope = iota
	// ScopeUser keys buckets by authenticated user ID.
	ScopeUser
)

// Tier is one rate limit class: its limiter and key scope. A nil Limiter
// disables the tier.
type Tier struct {
	Name    string
	Limiter *Limiter
	Scope   Scope
}

// Config routes requests to rate limit tiers.
type Config struct {
	Auth       Tier // login and register attempts
	Write      Tier // mutating operations
	ReadAuth   Tier // authenticated reads
	ReadUnauth Tier // unauthenticated reads
}

// NewConfig builds the tiers from the configured per-minute rates. A rate
// of 0 leaves that tier unlimited.
func NewConfig(limits storage.RateLimits) *Config {
	return &Config{
		Auth:       newTier("auth", limits.AuthRatePerMin, limits.AuthRatePerMin, ScopeIP),
		Write:      newTier("write", limits.WriteRatePerMin, limits.WriteRatePerMin/6+1, ScopeUser),
		ReadAuth:   newTier("read", limits.ReadAuthRatePerMin, limits.ReadAuthRatePerMin/6+1, ScopeUser),
		ReadUnauth: newTier("read", limits.ReadUnauthRatePerMin, limits.ReadUnauthRatePerMin/6+1, ScopeIP),
	}
}

func newTier(name string, perMin, burst int, scope Scope) Tier {
	t := Tier{Name: name, Scope: scope}
	if perMin > 0 {
		t.Limiter = NewLimiter(perMin, time.Minute, burst)
	}
	return t
}

// MatchUnauth returns the tier for an unauthenticated request, or nil when
// the path is not rate limited.
func (c *Config) MatchUnauth(method, path string) *Tier {
	if path == "/api/health" {
		return nil
	}
	if method == http.MethodPost && (path == "/api/auth/login" || path == "/api/auth/register") {
		return tierOrNil(&c.Auth)
	}
	if method == http.MethodGet {
		return tierOrNil(&c.ReadUnauth)
	}
	return nil
}

// MatchAuth returns the tier for an authenticated request, or nil when the
// path is not rate limited.
func (c *Config) MatchAuth(method, path string) *Tier {
	if path == "/api/health" {
		return nil
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return tierOrNil(&c.Write)
	case http.MethodGet:
		return tierOrNil(&c.ReadAuth)
	default:
		return nil
	}
}

func tierOrNil(t *Tier) *Tier {
	if t.Limiter == nil {
		return nil
	}
	return t
}

// Close stops all limiter cleanup goroutines.
func (c *Config) Close() {
	for _, t := range []*Tier{&c.Auth, &c.Write, &c.ReadAuth, &c.ReadUnauth} {
		if t.Limiter != nil {
			t.Limiter.Close()
		}
	}
}
