/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package config owns everything under ~/.vizgres/: the settings file with its
keybinding override sections, the saved connection profiles, and the
locations of the history and log files.

Parse failures in user-editable files downgrade to warnings — the defaults
stand in for rejected entries and startup continues. Only a missing home
directory, or a config directory that cannot be created, is fatal.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const dirName = ".vizgres"

var ErrNoHomeDir = errors.New("could not determine home directory")

// Dir returns the config directory (~/.vizgres), creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ErrNoHomeDir
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to ensure config directory %s: %w", dir, err)
	}
	return dir, nil
}

// HistoryPath returns the query history file location.
func HistoryPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// LogPath returns the session log file location.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vizgres.log"), nil
}

// Settings are the user preferences from the [settings] table.
type Settings struct {
	HistorySize        int    `toml:"history_size"`
	SaveHistory        bool   `toml:"save_history"`
	DefaultRowLimit    int    `toml:"default_row_limit"`
	SyntaxHighlighting bool   `toml:"syntax_highlighting"`
	AutoFormat         bool   `toml:"auto_format"`
	Theme              string `toml:"theme"`
}

// Keybindings carries the user's override sections; keys are key strings,
// values are action names, both validated later by the keymap.
type Keybindings struct {
	Global  map[string]string `toml:"global"`
	Editor  map[string]string `toml:"editor"`
	Results map[string]string `toml:"results"`
	Tree    map[string]string `toml:"tree"`
}

// Config is the parsed config.toml.
type Config struct {
	Settings    Settings    `toml:"settings"`
	Keybindings Keybindings `toml:"keybindings"`
}

// DefaultSettings returns the stock preferences.
func DefaultSettings() Settings {
	return Settings{
		HistorySize:        1000,
		SaveHistory:        true,
		DefaultRowLimit:    1000,
		SyntaxHighlighting: true,
		AutoFormat:         false,
		Theme:              "default",
	}
}

// Load reads config.toml from the config directory. A missing file yields
// defaults; an unparsable file yields defaults plus a warning.
func Load() (Config, []string, error) {
	dir, err := Dir()
	if err != nil {
		return Config{Settings: DefaultSettings()}, nil, err
	}
	return loadFrom(filepath.Join(dir, "config.toml"))
}

func loadFrom(path string) (Config, []string, error) {
	cfg := Config{Settings: DefaultSettings()}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil, nil
	}

	var warnings []string
	if _, err := toml.Decode(string(raw), &cfg); err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to parse %s: %v (using defaults)", path, err))
		cfg = Config{Settings: DefaultSettings()}
		return cfg, warnings, nil
	}

	if cfg.Settings.HistorySize <= 0 {
		warnings = append(warnings, fmt.Sprintf("invalid history_size %d (using default)", cfg.Settings.HistorySize))
		cfg.Settings.HistorySize = DefaultSettings().HistorySize
	}
	if cfg.Settings.DefaultRowLimit <= 0 {
		warnings = append(warnings, fmt.Sprintf("invalid default_row_limit %d (using default)", cfg.Settings.DefaultRowLimit))
		cfg.Settings.DefaultRowLimit = DefaultSettings().DefaultRowLimit
	}
	if cfg.Settings.Theme == "" {
		cfg.Settings.Theme = DefaultSettings().Theme
	}
	return cfg, warnings, nil
}
