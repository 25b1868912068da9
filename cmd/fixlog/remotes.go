package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Remote is a named fixlog server a CLI user can switch between.
type Remote struct {
	URL     string `toml:"url"`
	Token   string `toml:"token,omitempty"`
	NATSURL string `toml:"nats_url,omitempty"`
}

// RemotesConfig is persisted at ~/.local/state/fixlog/remotes.toml.
type RemotesConfig struct {
	Active  string            `toml:"active"`
	Remotes map[string]Remote `toml:"remotes"`
}

func remotesPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "fixlog", "remotes.toml"), nil
}

func loadRemotes() (*RemotesConfig, error) {
	path, err := remotesPath()
	if err != nil {
		return nil, err
	}
	cfg := &RemotesConfig{Remotes: map[string]Remote{}}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Remotes == nil {
		cfg.Remotes = map[string]Remote{}
	}
	return cfg, nil
}

func saveRemotes(cfg *RemotesConfig) error {
	path, err := remotesPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	// Tokens live in this file, keep it private.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

var (
	activeRemoteOnce sync.Once
	activeRemote     *Remote
)

// loadActiveRemote returns the active remote, or nil when none is
// configured. Errors reading the config are treated as no remote.
func loadActiveRemote() *Remote {
	activeRemoteOnce.Do(func() {
		cfg, err := loadRemotes()
		if err != nil || cfg.Active == "" {
			return
		}
		if r, ok := cfg.Remotes[cfg.Active]; ok {
			activeRemote = &r
		}
	})
	return activeRemote
}

func activeRemoteURL() string {
	if r := loadActiveRemote(); r != nil {
		return r.URL
	}
	return ""
}

func activeRemoteToken() string {
	if r := loadActiveRemote(); r != nil {
		return r.Token
	}
	return ""
}

func activeRemoteNATSURL() string {
	if r := loadActiveRemote(); r != nil {
		return r.NATSURL
	}
	return ""
}
