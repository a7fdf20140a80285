package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return &Store{Root: filepath.Join(t.TempDir(), "noveld")}
}

func TestLoadMerged_NoProfileUsesDefaults(t *testing.T) {
	s := newStore(t)

	cfg, used, err := s.LoadMerged(Options{})
	require.NoError(t, err)

	assert.Contains(t, used, "default config in memory")
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 2, cfg.RetryDelay)
}

func TestLoadMerged_FlagsOverrideProfile(t *testing.T) {
	s := newStore(t)
	path, err := s.InitDefault()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("output: /books\nretry_delay: 9\nuser_agent: profile-ua\n"), 0644))

	cfg, used, err := s.LoadMerged(Options{UserAgent: "flag-ua", NoProgress: true})
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.Equal(t, "/books", cfg.Output)
	assert.Equal(t, 9, cfg.RetryDelay)
	assert.Equal(t, "flag-ua", cfg.UserAgent)
	assert.False(t, cfg.Progress)
	assert.Zero(t, cfg.Timeout, "keys missing from the file keep their defaults")
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

func TestLoadMerged_IgnoreConfig(t *testing.T) {
	s := newStore(t)
	path, err := s.InitDefault()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("retry_delay: 9\n"), 0644))

	cfg, used, err := s.LoadMerged(Options{IgnoreConfig: true, Output: "out"})
	require.NoError(t, err)

	assert.Equal(t, "(ignored config)", used)
	assert.Equal(t, DefaultRetryDelay, cfg.RetryDelay)
	assert.Equal(t, "out", cfg.Output)
}

func TestLoadMerged_BrokenProfile(t *testing.T) {
	s := newStore(t)
	path, err := s.InitDefault()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("retry_delay: [1, 2\n"), 0644))

	_, _, err = s.LoadMerged(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestNormalizeDefaults(t *testing.T) {
	c := &Config{RetryDelay: -3, Timeout: -5, RequestIntervalMS: -1}
	normalizeDefaults(c)

	assert.Equal(t, ".", c.Output)
	assert.Equal(t, DefaultRetryDelay, c.RetryDelay)
	assert.Zero(t, c.Timeout, "negative timeout means no timeout")
	assert.Zero(t, c.RequestIntervalMS)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
}

func TestStore_Profiles(t *testing.T) {
	s := newStore(t)

	_, err := s.CurrentLabel()
	assert.ErrorIs(t, err, ErrNoConfig)

	_, err = s.InitDefault()
	require.NoError(t, err)

	_, err = s.InitDefault()
	assert.True(t, errors.Is(err, os.ErrExist))

	_, err = s.CreateConfig("slow")
	require.NoError(t, err)
	_, err = s.CreateConfig("slow")
	assert.Error(t, err)

	require.NoError(t, s.SwitchConfig("slow"))
	label, err := s.CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, "slow", label)

	require.NoError(t, s.RenameConfig("slow", "polite"))
	label, _ = s.CurrentLabel()
	assert.Equal(t, "polite", label, "renaming the active profile keeps it active")

	list, err := s.ListConfigs()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Default", list[0].Label)
	assert.False(t, list[0].Active)
	assert.Equal(t, "polite", list[1].Label)
	assert.True(t, list[1].Active)

	fellBack, err := s.RemoveConfig("polite")
	require.NoError(t, err)
	assert.True(t, fellBack)
	label, _ = s.CurrentLabel()
	assert.Equal(t, "Default", label)

	_, err = s.RemoveConfig("Default")
	assert.Error(t, err)

	assert.Error(t, s.SwitchConfig("missing"))
	assert.Error(t, s.SwitchConfig("../escape"))
}

func TestStore_ResetActive(t *testing.T) {
	s := newStore(t)
	path, err := s.InitDefault()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("retry_delay: 30\n"), 0644))

	_, err = s.ResetActive()
	require.NoError(t, err)

	cfg, err := loadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
