package manifest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
	"github.com/ilisfairy/mcl-installer/internal/service/common"
)

var errOffline = errors.New("offline")

// staticGetter serves fixed bodies keyed by URL.
type staticGetter struct {
	// bodies maps a URL to the returned document.
	bodies map[string]string
	// requested records the URLs asked for.
	requested []string
}

// Fetch returns the configured body or errOffline.
func (g *staticGetter) Fetch(_ context.Context, url string) ([]byte, error) {
	g.requested = append(g.requested, url)

	body, ok := g.bodies[url]
	if !ok {
		return nil, errOffline
	}

	return []byte(body), nil
}

// TestResolveVersion_LastIsLatest picks the last channel entry.
func TestResolveVersion_LastIsLatest(t *testing.T) {
	t.Parallel()

	m := &Manifest{Channels: map[string][]string{"stable": {"1.0", "1.1", "1.2"}}}

	v, err := ResolveVersion(m, "stable")
	require.NoError(t, err)
	require.Equal(t, "1.2", v)
}

// TestResolveVersion_Errors covers empty and unknown channels.
func TestResolveVersion_Errors(t *testing.T) {
	t.Parallel()

	m := &Manifest{Channels: map[string][]string{"stable": {}}}

	_, err := ResolveVersion(m, "stable")
	require.ErrorIs(t, err, ErrEmptyChannel)
	require.ErrorIs(t, err, install.ErrManifest)

	_, err = ResolveVersion(m, "nightly")
	require.ErrorIs(t, err, ErrUnknownChannel)
}

// TestResolveArchiveURL covers the repo lookups.
func TestResolveArchiveURL(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(`{"channels":{"stable":["2.0","2.1"]},"repo":{"2.0":{"archive":"https://x/y.zip"},"2.1":{"metadata":"https://x/m"}}}`))
	require.NoError(t, err)

	url, err := ResolveArchiveURL(m, "2.0")
	require.NoError(t, err)
	require.Equal(t, "https://x/y.zip", url)

	_, err = ResolveArchiveURL(m, "2.1")
	require.ErrorIs(t, err, ErrMissingArchive)

	_, err = ResolveArchiveURL(m, "3.0")
	require.ErrorIs(t, err, ErrUnknownVersion)

	_, err = ResolveArchiveURL(&Manifest{Channels: map[string][]string{}}, "2.0")
	require.ErrorIs(t, err, ErrUnknownVersion)
}

// TestParse_Errors rejects malformed JSON and a missing channel mapping.
func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"channels":`))
	require.ErrorIs(t, err, ErrManifestParse)

	_, err = Parse([]byte(`{"announcement":"hi"}`))
	require.ErrorIs(t, err, ErrManifestParse)

	_, err = Parse([]byte(`{"channels":{"stable":"1.0"}}`))
	require.ErrorIs(t, err, ErrManifestParse)

	m, err := Parse([]byte(`{"announcement":"hello","type":"mcl","channels":{}}`))
	require.NoError(t, err)
	require.Equal(t, "hello", m.AnnouncementText())
	require.Equal(t, "mcl", *m.Type)
}

// TestFetch_EndToEnd resolves a download URL from a fetched manifest.
func TestFetch_EndToEnd(t *testing.T) {
	t.Parallel()

	getter := &staticGetter{bodies: map[string]string{
		"https://repo.test/org/itxtech/mcl/package.json": `{"channels":{"stable":["2.0"]},"repo":{"2.0":{"archive":"https://x/y.zip"}}}`,
	}}

	m, err := Fetch(context.Background(), getter, "repo.test")
	require.NoError(t, err)
	require.Empty(t, m.AnnouncementText())

	v, err := ResolveVersion(m, StableChannel)
	require.NoError(t, err)

	url, err := ResolveArchiveURL(m, v)
	require.NoError(t, err)
	require.Equal(t, "https://x/y.zip", url)

	_, err = Fetch(context.Background(), getter, "down.test")
	require.ErrorIs(t, err, ErrManifestFetch)
	require.ErrorIs(t, err, install.ErrNetwork)
	require.Contains(t, err.Error(), "https://down.test/org/itxtech/mcl/package.json")
}

// TestFetch_OverHTTPS runs Fetch against a TLS test server with the shared client.
func TestFetch_OverHTTPS(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != packagePath {
			http.NotFound(w, r)
			return
		}

		_, _ = w.Write([]byte(`{"announcement":"news","channels":{"stable":["2.1.0","2.1.1"]}}`))
	}))
	defer srv.Close()

	client := common.NewClient(common.WithHTTPClient(srv.Client()))
	host := strings.TrimPrefix(srv.URL, "https://")

	m, err := Fetch(context.Background(), client, host)
	require.NoError(t, err)
	require.Equal(t, "news", m.AnnouncementText())

	v, err := ResolveVersion(m, StableChannel)
	require.NoError(t, err)
	require.Equal(t, "2.1.1", v)

	_, err = Fetch(context.Background(), client, host+"/nested")
	require.ErrorIs(t, err, ErrManifestFetch)
	require.ErrorIs(t, err, common.ErrBadHTTPStatus)
}
