/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// SslMode is the TLS negotiation policy for a profile.
type SslMode string

const (
	SslDisable SslMode = "disable"
	SslPrefer  SslMode = "prefer"
	SslRequire SslMode = "require"
)

const defaultPort = 5432

// Profile is one saved connection.
type Profile struct {
	Name     string  `toml:"name"`
	Host     string  `toml:"host"`
	Port     int     `toml:"port"`
	Database string  `toml:"database"`
	Username string  `toml:"username"`
	Password string  `toml:"password,omitempty"`
	SslMode  SslMode `toml:"ssl_mode"`
}

// ProfileNotFoundError names a profile missing from the connections file.
type ProfileNotFoundError struct {
	Name string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("connection profile %q not found", e.Name)
}

type connectionsFile struct {
	Connections []Profile `toml:"connections"`
}

func connectionsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "connections.toml"), nil
}

// LoadProfiles reads the saved profiles. A missing file is an empty list;
// an unparsable one is an empty list plus a warning.
func LoadProfiles() ([]Profile, []string, error) {
	path, err := connectionsPath()
	if err != nil {
		return nil, nil, err
	}
	return loadProfilesFrom(path)
}

func loadProfilesFrom(path string) ([]Profile, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil
	}
	var file connectionsFile
	if _, err := toml.Decode(string(raw), &file); err != nil {
		return nil, []string{fmt.Sprintf("failed to parse %s: %v", path, err)}, nil
	}
	for i := range file.Connections {
		normalize(&file.Connections[i])
	}
	return file.Connections, nil, nil
}

// SaveProfiles rewrites the connections file. Empty passwords are omitted
// from the serialized form.
func SaveProfiles(profiles []Profile) error {
	path, err := connectionsPath()
	if err != nil {
		return err
	}
	return saveProfilesTo(path, profiles)
}

func saveProfilesTo(path string, profiles []Profile) error {
	var out strings.Builder
	if err := toml.NewEncoder(&out).Encode(connectionsFile{Connections: profiles}); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out.String()), 0600)
}

// FindProfile returns the named profile from the saved list.
func FindProfile(name string) (Profile, error) {
	profiles, _, err := LoadProfiles()
	if err != nil {
		return Profile{}, err
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, &ProfileNotFoundError{Name: name}
}

// UpsertProfile adds or replaces a profile by name and persists the list.
func UpsertProfile(p Profile) error {
	profiles, _, err := LoadProfiles()
	if err != nil {
		return err
	}
	replaced := false
	for i := range profiles {
		if profiles[i].Name == p.Name {
			profiles[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		profiles = append(profiles, p)
	}
	return SaveProfiles(profiles)
}

// ParseURL parses postgres://[user[:pass]@]host[:port]/database into a
// profile.
func ParseURL(raw string) (Profile, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Profile{}, fmt.Errorf("invalid connection URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return Profile{}, fmt.Errorf("invalid connection protocol: %s", u.Scheme)
	}

	p := Profile{Port: defaultPort, SslMode: SslPrefer}

	if host, port, err := net.SplitHostPort(u.Host); err == nil {
		p.Host = host
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return Profile{}, fmt.Errorf("invalid port: %s", port)
		}
		p.Port = n
	} else {
		p.Host = u.Host
	}
	if p.Host == "" {
		return Profile{}, fmt.Errorf("missing host")
	}

	if u.User != nil {
		p.Username = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			p.Password = pass
		}
	}

	p.Database = strings.TrimPrefix(u.Path, "/")
	if p.Database == "" {
		return Profile{}, fmt.Errorf("missing database name")
	}

	if mode := u.Query().Get("sslmode"); mode != "" {
		switch SslMode(mode) {
		case SslDisable, SslPrefer, SslRequire:
			p.SslMode = SslMode(mode)
		default:
			return Profile{}, fmt.Errorf("invalid sslmode: %s", mode)
		}
	}

	p.Name = fmt.Sprintf("%s/%s", p.Host, p.Database)
	return p, nil
}

// ConnString renders the profile as a key/value conninfo string for the
// adapter.
func (p Profile) ConnString() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("host", p.Host)
	if p.Port != 0 {
		add("port", strconv.Itoa(p.Port))
	}
	add("dbname", p.Database)
	add("user", p.Username)
	add("password", p.Password)
	add("sslmode", string(p.SslMode))
	return strings.Join(parts, " ")
}

// Display is the connection name shown in the status line.
func (p Profile) Display() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("%s/%s", p.Host, p.Database)
}

func normalize(p *Profile) {
	if p.Port == 0 {
		p.Port = defaultPort
	}
	if p.SslMode == "" {
		p.SslMode = SslPrefer
	}
}
