package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrNoConfig = errors.New("no config selected")

const defaultLabel = "Default"

// Store manages labeled YAML profiles under Root:
//
//	Root/configs/<label>.yaml
//	Root/current_config
type Store struct {
	Root string
}

func ConfigRoot() string {
	// Windows
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "noveld")
	}

	// Linux/macOS XDG
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "noveld")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "noveld")
}

func DefaultStore() *Store {
	return &Store{Root: ConfigRoot()}
}

func (s *Store) ConfigsDir() string {
	return filepath.Join(s.Root, "configs")
}

func (s *Store) currentLabelFile() string {
	return filepath.Join(s.Root, "current_config")
}

func (s *Store) PathFor(label string) string {
	return filepath.Join(s.ConfigsDir(), label+".yaml")
}

func (s *Store) ensureDirs() error {
	return os.MkdirAll(s.ConfigsDir(), 0755)
}

func (s *Store) exists(label string) bool {
	_, err := os.Stat(s.PathFor(label))
	return err == nil
}

func validLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return errors.New("label cannot be empty")
	}
	if strings.ContainsAny(label, `/\`) {
		return fmt.Errorf("label %q must not contain path separators", label)
	}
	return nil
}

func (s *Store) CurrentLabel() (string, error) {
	b, err := os.ReadFile(s.currentLabelFile())
	if os.IsNotExist(err) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	label := strings.TrimSpace(string(b))
	if label == "" {
		return "", ErrNoConfig
	}

	return label, nil
}

func (s *Store) setCurrent(label string) error {
	if err := s.ensureDirs(); err != nil {
		return err
	}
	return os.WriteFile(s.currentLabelFile(), []byte(label), 0644)
}

func (s *Store) ActiveConfigPath() (string, error) {
	label, err := s.CurrentLabel()
	if err != nil {
		return "", err
	}

	return s.PathFor(label), nil
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

func (s *Store) ListConfigs() ([]ConfigInfo, error) {
	entries, err := os.ReadDir(s.ConfigsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	active, _ := s.CurrentLabel()
	var out []ConfigInfo

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".yaml" {
			continue
		}

		label := strings.TrimSuffix(name, ".yaml")
		out = append(out, ConfigInfo{
			Label:  label,
			Path:   filepath.Join(s.ConfigsDir(), name),
			Active: label == active,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (s *Store) SwitchConfig(label string) error {
	if err := validLabel(label); err != nil {
		return err
	}
	if !s.exists(label) {
		return fmt.Errorf("config %q does not exist", label)
	}

	return s.setCurrent(label)
}

// CreateConfig writes a profile with default values.
func (s *Store) CreateConfig(label string) (string, error) {
	if err := validLabel(label); err != nil {
		return "", err
	}
	if err := s.ensureDirs(); err != nil {
		return "", err
	}
	if s.exists(label) {
		return "", fmt.Errorf("config %q already exists", label)
	}

	path := s.PathFor(label)
	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	return path, nil
}

// InitDefault creates the Default profile if needed and makes it active.
// It returns os.ErrExist together with the path when the profile was there.
func (s *Store) InitDefault() (string, error) {
	path := s.PathFor(defaultLabel)

	if s.exists(defaultLabel) {
		return path, errors.Join(os.ErrExist, s.setCurrent(defaultLabel))
	}

	if _, err := s.CreateConfig(defaultLabel); err != nil {
		return "", err
	}

	return path, s.setCurrent(defaultLabel)
}

func (s *Store) ResetActive() (string, error) {
	path, err := s.ActiveConfigPath()
	if err != nil {
		return "", err
	}

	return path, SaveYAML(DefaultConfig(), path)
}

func (s *Store) RenameConfig(oldLabel, newLabel string) error {
	if err := validLabel(newLabel); err != nil {
		return err
	}
	if !s.exists(oldLabel) {
		return fmt.Errorf("config %q does not exist", oldLabel)
	}
	if s.exists(newLabel) {
		return fmt.Errorf("config %q already exists", newLabel)
	}

	if err := os.Rename(s.PathFor(oldLabel), s.PathFor(newLabel)); err != nil {
		return err
	}

	if active, _ := s.CurrentLabel(); active == oldLabel {
		return s.setCurrent(newLabel)
	}

	return nil
}

// RemoveConfig deletes a profile. Removing the active one falls back to
// Default, which itself cannot be removed.
func (s *Store) RemoveConfig(label string) (fellBack bool, err error) {
	if err := validLabel(label); err != nil {
		return false, err
	}
	if label == defaultLabel {
		return false, errors.New("cannot remove the Default config")
	}
	if !s.exists(label) {
		return false, fmt.Errorf("config %q does not exist", label)
	}

	if active, _ := s.CurrentLabel(); active == label {
		if err := s.SwitchConfig(defaultLabel); err != nil {
			return false, fmt.Errorf("failed switching to Default: %w", err)
		}
		fellBack = true
	}

	return fellBack, os.Remove(s.PathFor(label))
}
