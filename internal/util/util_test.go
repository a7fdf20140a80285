package util

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Debugf(format string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
}

func TestNewHTTPClient_SetsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(cookieFile, []byte("\n  cf_clearance=abc  \nignored=1\n"), 0644))

	log := &recordingLogger{}
	client, err := NewHTTPClient(HTTPClientOptions{
		Timeout:     time.Second,
		UserAgent:   "noveld-test",
		Cookie:      "session=1",
		CookieFile:  cookieFile,
		DebugLogger: log,
	})
	require.NoError(t, err)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "noveld-test", got.Get("User-Agent"))
	assert.Equal(t, "session=1; cf_clearance=abc", got.Get("Cookie"))
	assert.Len(t, log.lines, 2)
}

func TestNewHTTPClient_RequestInterval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	client, err := NewHTTPClient(HTTPClientOptions{
		Timeout:         5 * time.Second,
		RequestInterval: 100 * time.Millisecond,
		Transport:       srv.Client().Transport,
	})
	require.NoError(t, err)

	start := time.Now()
	for range 3 {
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.GreaterOrEqual(t, time.Since(start), 190*time.Millisecond)
}

func TestJoinCookies(t *testing.T) {
	assert.Equal(t, "", joinCookies("", ""))
	assert.Equal(t, "a=1", joinCookies(" a=1 ", ""))
	assert.Equal(t, "a=1", joinCookies("a=1", filepath.Join(t.TempDir(), "missing")))
}

func TestPickUserAgent(t *testing.T) {
	assert.Equal(t, "custom", PickUserAgent("custom"))
	assert.Contains(t, PickUserAgent(""), "Mozilla/5.0")
}

func TestCreateOutput(t *testing.T) {
	dir := t.TempDir()

	out, err := CreateOutput(dir, "Novel.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Novel.md"), out.Path)

	_, err = out.WriteString("# Novel\n\n")
	require.NoError(t, err)
	require.NoError(t, out.Close())

	b, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, "# Novel\n\n", string(b))
}

func TestCreateOutput_MissingDir(t *testing.T) {
	_, err := CreateOutput(filepath.Join(t.TempDir(), "nope"), "Novel.md")
	assert.Error(t, err)
}

func TestRemoveIfEmpty(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.md")
	full := filepath.Join(dir, "full.md")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	require.NoError(t, os.WriteFile(full, []byte("x"), 0644))

	RemoveIfEmpty(empty)
	RemoveIfEmpty(full)

	assert.NoFileExists(t, empty)
	assert.FileExists(t, full)
}

func TestHuman(t *testing.T) {
	assert.Equal(t, "512 B", Human(512))
	assert.Equal(t, "1.50 KB", Human(1536))
	assert.Equal(t, "2.00 MB", Human(2<<20))
	assert.Equal(t, "1.00 GB", Human(1<<30))
}
