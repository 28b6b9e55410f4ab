package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aescanero/wdcsim/internal/simconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJar_ReadsRequestCookies(t *testing.T) {
	raw, err := simconfig.EncodeCookieValue([]string{"a.html", "b.html"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: simconfig.CookieMostRecentURLs, Value: raw})
	req.AddCookie(&http.Cookie{Name: simconfig.CookieShowAdvanced, Value: "true"})

	jar := NewJar(req, httptest.NewRecorder(), Options{})
	d := simconfig.Load(context.Background(), jar)

	assert.Equal(t, []string{"a.html", "b.html"}, d.MostRecentURLs())
	assert.Equal(t, "a.html", d.DefaultURL())
	assert.True(t, d.ShowAdvanced())
}

func TestJar_MissingCookie(t *testing.T) {
	jar := NewJar(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder(), Options{})

	_, ok := jar.Get(context.Background(), simconfig.CookieShowAdvanced)
	assert.False(t, ok)
}

func TestJar_SetWritesHeaderAndIsReadable(t *testing.T) {
	rec := httptest.NewRecorder()
	jar := NewJar(httptest.NewRequest(http.MethodGet, "/", nil), rec, Options{
		Path:   "/sim",
		MaxAge: time.Hour,
	})
	ctx := context.Background()

	require.NoError(t, jar.Set(ctx, simconfig.CookieShowAdvanced, "true"))

	v, ok := jar.Get(ctx, simconfig.CookieShowAdvanced)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, simconfig.CookieShowAdvanced, cookies[0].Name)
	assert.Equal(t, "true", cookies[0].Value)
	assert.Equal(t, "/sim", cookies[0].Path)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestJar_Remove(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: simconfig.CookieShowAdvanced, Value: "true"})
	rec := httptest.NewRecorder()
	jar := NewJar(req, rec, Options{})
	ctx := context.Background()

	require.NoError(t, jar.Remove(ctx, simconfig.CookieShowAdvanced))

	_, ok := jar.Get(ctx, simconfig.CookieShowAdvanced)
	assert.False(t, ok)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
