package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugovk/NYChickens/pkg/credentials"
	"github.com/hugovk/NYChickens/pkg/publisher"
	"github.com/hugovk/NYChickens/pkg/report"
)

type stubSession struct{ posts int }

func (s *stubSession) Post(context.Context, string, report.Coordinates, bool) (*publisher.Posted, error) {
	s.posts++
	return &publisher.Posted{Handle: "nychickens", ID: "7"}, nil
}

type stubAuth struct{ session *stubSession }

func (a stubAuth) Authenticate(context.Context, credentials.Credentials) (publisher.Session, error) {
	return a.session, nil
}

type stubBrowser struct{ urls []string }

func (b *stubBrowser) Open(url string, _ bool) error {
	b.urls = append(b.urls, url)
	return nil
}

type harness struct {
	app      *app
	session  *stubSession
	browser  *stubBrowser
	apis     []string
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	infile   string
	yamlPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, key := range []string{"NYCHICKENS_INFILE", "NYCHICKENS_YAML", "NYCHICKENS_CHANCE", "NYCHICKENS_API", "NYCHICKENS_SCHEDULE"} {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Chdir(t.TempDir())

	dir := t.TempDir()
	h := &harness{
		session:  &stubSession{},
		browser:  &stubBrowser{},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		infile:   filepath.Join(dir, "animals.json"),
		yamlPath: filepath.Join(dir, "keys.yaml"),
	}
	require.NoError(t, os.WriteFile(h.infile, []byte(`[{
		"animal": "Chicken",
		"complaint_details": "Found a chicken head",
		"additional_location_details": "near bench",
		"park_or_facility": "Central Park",
		"site_city_zip": "New York, 10022",
		"lat": 40.78,
		"lng": -73.96
	}]`), 0o644))
	require.NoError(t, os.WriteFile(h.yamlPath, []byte("consumer_key: a\nconsumer_secret: b\naccess_token: c\naccess_token_secret: d\n"), 0o600))

	h.app = &app{
		stdout: h.stdout,
		stderr: h.stderr,
		authenticator: func(api string, _ *log.Logger) publisher.Authenticator {
			h.apis = append(h.apis, api)
			return stubAuth{session: h.session}
		},
		browser: h.browser,
	}
	return h
}

func (h *harness) run(args ...string) int {
	base := []string{"-i", h.infile, "-y", h.yamlPath}
	return h.app.run(context.Background(), append(base, args...))
}

func TestNormalizeArgs(t *testing.T) {
	in := []string{"-i", "a.json", "-nw", "-x", "--nw", "-n"}
	assert.Equal(t, []string{"-i", "a.json", "--no-web", "-x", "--nw", "-n"}, normalizeArgs(in))
	assert.Equal(t, "-nw", in[2])
}

func TestRunPostsAndOpensBrowser(t *testing.T) {
	h := newHarness(t)

	code := h.run("-c", "1")
	assert.Equal(t, 0, code, h.stderr.String())
	assert.Equal(t, 1, h.session.posts)
	assert.Equal(t, []string{"https://twitter.com/nychickens/status/7"}, h.browser.urls)
	assert.Equal(t, []string{"v1"}, h.apis)
	assert.Contains(t, h.stdout.String(), "Found a #chicken head/near bench/Central Park/New York, 10022")
}

func TestRunLegacyNoWebFlag(t *testing.T) {
	h := newHarness(t)

	code := h.run("-c", "1", "-nw")
	assert.Equal(t, 0, code, h.stderr.String())
	assert.Equal(t, 1, h.session.posts)
	assert.Empty(t, h.browser.urls)
}

func TestRunDryRun(t *testing.T) {
	h := newHarness(t)

	code := h.run("--chance", "1", "--test", "--api", "v2")
	assert.Equal(t, 0, code, h.stderr.String())
	assert.Zero(t, h.session.posts)
	assert.Empty(t, h.browser.urls)
	assert.Equal(t, []string{"v2"}, h.apis)
	assert.Contains(t, h.stdout.String(), "(40.78, -73.96)")
	assert.Contains(t, h.stdout.String(), "Test mode")
}

func TestRunSkipExitsNonZero(t *testing.T) {
	h := newHarness(t)

	// One in a billion with a fixed seed: the gate declines.
	code := h.run("-c", "1000000000", "--seed", "1")
	assert.Equal(t, 1, code)
	assert.Zero(t, h.session.posts)
	assert.Contains(t, h.stderr.String(), "No post this time")
}

func TestRunFailures(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, os.WriteFile(h.yamlPath, []byte("consumer_key: a\n"), 0o600))

		code := h.run("-c", "1")
		assert.Equal(t, 1, code)
		assert.Contains(t, h.stderr.String(), h.yamlPath)
		assert.Zero(t, h.session.posts)
	})

	t.Run("bad flag", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, 1, h.run("--bogus"))
	})

	t.Run("bad api", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, 1, h.run("--api", "v3"))
	})
}

func TestRunHelp(t *testing.T) {
	h := newHarness(t)

	code := h.app.run(context.Background(), []string{"--help"})
	assert.Equal(t, 0, code)
	assert.Contains(t, h.stdout.String(), "--infile")
	assert.Contains(t, h.stdout.String(), "--no-web")
}

func TestRunFlagsOverrideInvalidEnv(t *testing.T) {
	t.Run("chance flag wins", func(t *testing.T) {
		h := newHarness(t)
		t.Setenv("NYCHICKENS_CHANCE", "often")

		code := h.run("-c", "1", "-x")
		assert.Equal(t, 0, code, h.stderr.String())
		assert.Contains(t, h.stdout.String(), "Test mode")
	})

	t.Run("api flag wins", func(t *testing.T) {
		h := newHarness(t)
		t.Setenv("NYCHICKENS_API", "v9")

		code := h.run("-c", "1", "-x", "--api", "v2")
		assert.Equal(t, 0, code, h.stderr.String())
		assert.Equal(t, []string{"v2"}, h.apis)
	})

	t.Run("invalid env without flag fails", func(t *testing.T) {
		h := newHarness(t)
		t.Setenv("NYCHICKENS_CHANCE", "often")

		code := h.run("-x")
		assert.Equal(t, 1, code)
		assert.Contains(t, h.stderr.String(), "NYCHICKENS_CHANCE")
	})

	t.Run("help ignores env", func(t *testing.T) {
		h := newHarness(t)
		t.Setenv("NYCHICKENS_API", "v9")

		code := h.app.run(context.Background(), []string{"--help"})
		assert.Equal(t, 0, code)
		assert.Contains(t, h.stdout.String(), "--chance")
	})
}

func TestRunUsesEnvWhenFlagsUnset(t *testing.T) {
	h := newHarness(t)
	t.Setenv("NYCHICKENS_INFILE", h.infile)
	t.Setenv("NYCHICKENS_YAML", h.yamlPath)
	t.Setenv("NYCHICKENS_CHANCE", "1")
	t.Setenv("NYCHICKENS_API", "v2")

	code := h.app.run(context.Background(), []string{"-x"})
	assert.Equal(t, 0, code, h.stderr.String())
	assert.Equal(t, []string{"v2"}, h.apis)
	assert.Contains(t, h.stdout.String(), "Found a #chicken head")
}
