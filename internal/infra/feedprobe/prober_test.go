package feedprobe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example News</title>
  <description>All the news</description>
  <item><title>First</title><link>https://example.com/1</link></item>
  <item><title>Second</title><link>https://example.com/2</link></item>
  <item><title>  </title><link>https://example.com/3</link></item>
  <item><title>Fourth</title><link>https://example.com/4</link></item>
  <item><title>Fifth</title><link>https://example.com/5</link></item>
</channel>
</rss>`

const atomDoc = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Site</title>
  <entry><title>Only entry</title><id>urn:1</id></entry>
</feed>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = fmt.Fprint(w, rssDoc)
	})
	mux.HandleFunc("/feeds/atom.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, atomDoc)
	})
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><head>
<link rel="stylesheet" href="/style.css">
<link rel="alternate" type="application/atom+xml" title="Atom" href="../feeds/atom.xml">
<link rel="alternate" type="application/rss+xml" href="/rss">
</head><body>hi</body></html>`)
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><head><title>No feed</title></head><body></body></html>`)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProber(srv *httptest.Server) *Prober {
	cfg := DefaultConfig()
	cfg.DenyPrivateIPs = false
	return New(srv.Client(), cfg, nil)
}

func TestProber_Probe(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	p := newTestProber(srv)

	tests := []struct {
		name        string
		path        string
		wantFeed    string
		wantTitle   string
		wantCount   int
		wantLatest  []string
		wantErrIs   error
		wantErrText string
	}{
		{
			name:       "direct RSS",
			path:       "/rss",
			wantFeed:   "/rss",
			wantTitle:  "Example News",
			wantCount:  5,
			wantLatest: []string{"First", "Second", "Fourth"},
		},
		{
			name:       "HTML page announcing a feed",
			path:       "/blog",
			wantFeed:   "/feeds/atom.xml",
			wantTitle:  "Atom Site",
			wantCount:  1,
			wantLatest: []string{"Only entry"},
		},
		{name: "HTML page without feed", path: "/plain", wantErrIs: ErrNoFeed},
		{name: "not found", path: "/missing", wantErrText: "unexpected status 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Probe(context.Background(), "  "+srv.URL+tt.path+"  ")
			if tt.wantErrIs != nil || tt.wantErrText != "" {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				if tt.wantErrText != "" {
					assert.Contains(t, err.Error(), tt.wantErrText)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, srv.URL+tt.path, got.URL)
			assert.Equal(t, srv.URL+tt.wantFeed, got.FeedURL)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.wantCount, got.ItemCount)
			assert.Equal(t, tt.wantLatest, got.LatestItems)
		})
	}
}

func TestProber_RejectsPrivateAddresses(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cfg := DefaultConfig()
	p := New(srv.Client(), cfg, nil)

	_, err := p.Probe(context.Background(), srv.URL+"/rss")
	assert.ErrorIs(t, err, ErrPrivateIP)

	p.lookupIP = func(string) ([]net.IP, error) { return []net.IP{net.ParseIP("93.184.216.34")}, nil }
	_, err = p.Probe(context.Background(), "ftp://example.com/rss")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestIsPrivateIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"::1", true},
		{"fd00::1", true},
		{"fe80::1", true},
		{"0.0.0.0", true},
		{"8.8.8.8", false},
		{"2606:4700:4700::1111", false},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.want, isPrivateIP(net.ParseIP(tt.ip)))
		})
	}
}

func TestCountsAsSuccess(t *testing.T) {
	t.Parallel()

	assert.True(t, countsAsSuccess(nil))
	assert.True(t, countsAsSuccess(&statusError{Status: 404}))
	assert.False(t, countsAsSuccess(&statusError{Status: 503}))
	assert.False(t, countsAsSuccess(fmt.Errorf("dial: %w", net.ErrClosed)))
	assert.True(t, countsAsSuccess(fmt.Errorf("redirect target validation failed: %w", ErrPrivateIP)))
	assert.True(t, countsAsSuccess(fmt.Errorf("HTTP request failed: %w", ErrTooManyRedirects)))
}

// publicExceptLocalhost resolves "localhost" to loopback and every other host to a public address.
func publicExceptLocalhost(host string) ([]net.IP, error) {
	if host == "localhost" {
		return []net.IP{net.ParseIP("127.0.0.1")}, nil
	}
	return []net.IP{net.ParseIP("93.184.216.34")}, nil
}

func TestProber_RefusesRedirectToPrivateAddress(t *testing.T) {
	t.Parallel()

	var internalHits atomic.Int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL, err := url.Parse(srv.URL)
	require.NoError(t, err)

	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://localhost:"+srvURL.Port()+"/admin", http.StatusFound)
	})
	mux.HandleFunc("/admin", func(w http.ResponseWriter, r *http.Request) {
		internalHits.Add(1)
		_, _ = fmt.Fprint(w, rssDoc)
	})

	p := New(srv.Client(), DefaultConfig(), nil)
	p.lookupIP = publicExceptLocalhost

	_, err = p.Probe(context.Background(), srv.URL+"/hop")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrivateIP)
	assert.Zero(t, internalHits.Load(), "the internal target is never requested")
}

func TestProber_FollowsPublicRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/rss", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, rssDoc)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.MaxRedirects = 3
	p := New(srv.Client(), cfg, nil)
	p.lookupIP = publicExceptLocalhost

	got, err := p.Probe(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, "Example News", got.Title)

	_, err = p.Probe(context.Background(), srv.URL+"/loop")
	assert.ErrorIs(t, err, ErrTooManyRedirects)
}

func TestNew_DoesNotMutateCallerClient(t *testing.T) {
	t.Parallel()

	client := &http.Client{}
	p := New(client, DefaultConfig(), nil)
	assert.Nil(t, client.CheckRedirect)
	assert.NotNil(t, p.client.CheckRedirect)
}
