package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/internal/devserver"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// newDevServer starts the blog API on miniredis with alice and bob.
func newDevServer(t *testing.T) string {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := devserver.DefaultConfig()
	cfg.Secret = []byte("cli-test-secret-cli-test-secret!")
	cfg.TokenTTL = time.Minute
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1

	srv, err := devserver.New(cfg, rdb, nil)
	require.NoError(t, err)
	_, err = srv.Users().Add("alice", "alice@example.com", "alice-password")
	require.NoError(t, err)
	_, err = srv.Users().Add("bob", "bob@example.com", "bob-password")
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

// writeConfig stores a config pointing at baseURL with a file session store
// in a temp dir, and returns its path. Each edit gets the config and the
// temp dir before it is saved.
func writeConfig(t *testing.T, baseURL string, edits ...func(cfg *goBlog.Config, dir string)) string {
	t.Helper()
	dir := t.TempDir()

	cfg := goBlog.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.Session.Backend = goBlog.SessionBackendFile
	cfg.Session.FilePath = filepath.Join(dir, "session.yaml")
	for _, edit := range edits {
		edit(&cfg, dir)
	}

	path := filepath.Join(dir, "goblog.yaml")
	require.NoError(t, goBlog.SaveConfig(path, cfg))
	return path
}

type result struct {
	out    string
	errOut string
	err    error
}

// run executes one CLI invocation with a fresh app, the way separate
// processes would.
func run(t *testing.T, configure func(a *app), args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(""), &out, &errOut)
	a.interactive = func() bool { return false }
	if configure != nil {
		configure(a)
	}

	root := a.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	a.close()

	return result{out: out.String(), errOut: errOut.String(), err: err}
}

// metricValue returns the value column printed for name.
func metricValue(out, name string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == name {
			return fields[1]
		}
	}
	return ""
}

type fakePrompter struct {
	username, password string
	post               goBlog.PostInput
	confirm            bool
	calls              int
}

func (p *fakePrompter) Credentials(username, password *string) error {
	p.calls++
	if *username == "" {
		*username = p.username
	}
	if *password == "" {
		*password = p.password
	}
	return nil
}

func (p *fakePrompter) Post(in *goBlog.PostInput, _ bool) error {
	p.calls++
	*in = p.post
	return nil
}

func (p *fakePrompter) Confirm(string) (bool, error) {
	p.calls++
	return p.confirm, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
