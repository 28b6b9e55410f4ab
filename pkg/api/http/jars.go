package http

import (
	"fmt"

	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/aescanero/wdcsim/internal/simconfig"
	"github.com/aescanero/wdcsim/pkg/adapters/cookies/browser"
	cookieredis "github.com/aescanero/wdcsim/pkg/adapters/cookies/redis"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JarProvider resolves the cookie jar holding the preferences of the client
// behind a request
type JarProvider interface {
	JarFor(c *gin.Context) (ports.CookieJar, error)
	Clear(c *gin.Context) error
	Backend() string
}

// BrowserJars keeps preferences in the browser's own cookies
type BrowserJars struct {
	Options browser.Options
}

// JarFor returns a jar over the request and response cookies
func (b *BrowserJars) JarFor(c *gin.Context) (ports.CookieJar, error) {
	return browser.NewJar(c.Request, c.Writer, b.Options), nil
}

// Clear expires both preference cookies
func (b *BrowserJars) Clear(c *gin.Context) error {
	jar := browser.NewJar(c.Request, c.Writer, b.Options)
	for _, name := range []string{simconfig.CookieShowAdvanced, simconfig.CookieMostRecentURLs} {
		if err := jar.Remove(c.Request.Context(), name); err != nil {
			return err
		}
	}
	return nil
}

// Backend names the preference backend
func (b *BrowserJars) Backend() string {
	return "cookie"
}

// RedisJars keeps preferences in Redis, keyed by a session ID cookie
type RedisJars struct {
	Store         *cookieredis.Store
	SessionCookie string
	Options       browser.Options
}

// JarFor returns the Redis jar of the requesting browser, issuing a session
// cookie on first contact
func (r *RedisJars) JarFor(c *gin.Context) (ports.CookieJar, error) {
	sessionID := r.sessionID(c)
	if sessionID == "" {
		sessionID = uuid.New().String()
		opts := r.Options
		opts.HTTPOnly = true
		jar := browser.NewJar(c.Request, c.Writer, opts)
		if err := jar.Set(c.Request.Context(), r.SessionCookie, sessionID); err != nil {
			return nil, fmt.Errorf("failed to issue session cookie: %w", err)
		}
	}

	return r.Store.Jar(sessionID), nil
}

// Clear deletes the stored preferences of the requesting browser
func (r *RedisJars) Clear(c *gin.Context) error {
	sessionID := r.sessionID(c)
	if sessionID == "" {
		return nil
	}
	return r.Store.DeleteSession(c.Request.Context(), sessionID)
}

// sessionID returns the browser's session ID, or "" when it has none
func (r *RedisJars) sessionID(c *gin.Context) string {
	ck, err := c.Request.Cookie(r.SessionCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(ck.Value); err != nil {
		return ""
	}
	return ck.Value
}

// Backend names the preference backend
func (r *RedisJars) Backend() string {
	return "redis"
}
