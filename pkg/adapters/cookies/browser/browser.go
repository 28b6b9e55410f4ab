package browser

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Options control the attributes of cookies written by a Jar
type Options struct {
	Path   string
	Domain string
	MaxAge time.Duration
	Secure bool

	// HTTPOnly hides the cookie from scripts. Preference cookies stay
	// readable because the simulator UI reads them directly.
	HTTPOnly bool
}

// Jar implements ports.CookieJar over the cookies of one HTTP exchange.
// Reads come from the request; writes go to the response and are visible to
// later reads on the same Jar.
type Jar struct {
	req  *http.Request
	w    http.ResponseWriter
	opts Options

	mu      sync.Mutex
	written map[string]*string
}

// NewJar creates a jar for a request/response pair
func NewJar(req *http.Request, w http.ResponseWriter, opts Options) *Jar {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &Jar{
		req:     req,
		w:       w,
		opts:    opts,
		written: make(map[string]*string),
	}
}

// Get returns the raw cookie value
func (j *Jar) Get(ctx context.Context, name string) (string, bool) {
	j.mu.Lock()
	v, seen := j.written[name]
	j.mu.Unlock()
	if seen {
		if v == nil {
			return "", false
		}
		return *v, true
	}

	c, err := j.req.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Set writes a Set-Cookie header. The value must already be cookie-safe.
func (j *Jar) Set(ctx context.Context, name, value string) error {
	c := j.cookie(name, value)
	if j.opts.MaxAge > 0 {
		c.MaxAge = int(j.opts.MaxAge.Seconds())
		c.Expires = time.Now().Add(j.opts.MaxAge)
	}
	http.SetCookie(j.w, c)

	j.mu.Lock()
	j.written[name] = &value
	j.mu.Unlock()
	return nil
}

// Remove expires a cookie in the browser
func (j *Jar) Remove(ctx context.Context, name string) error {
	c := j.cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(j.w, c)

	j.mu.Lock()
	j.written[name] = nil
	j.mu.Unlock()
	return nil
}

func (j *Jar) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     j.opts.Path,
		Domain:   j.opts.Domain,
		Secure:   j.opts.Secure,
		HttpOnly: j.opts.HTTPOnly,
		SameSite: http.SameSiteLaxMode,
	}
}
