package domain

import (
	"fmt"
	"net/url"
)

// ConnectionProfile selects which identity-store deployment the watcher
// connects to.
type ConnectionProfile string

// Supported connection profiles.
const (
	// ProfileMeteorDev is a local Meteor development database: default
	// port 3001, no authentication.
	ProfileMeteorDev ConnectionProfile = "meteor-dev"
	// ProfileLocal is a locally installed or containerised database,
	// usually with username/password auth.
	ProfileLocal ConnectionProfile = "local"
	// ProfileAtlas is a hosted cluster reached by connection string.
	ProfileAtlas ConnectionProfile = "atlas"
)

// ConnectionConfig holds the raw per-profile settings as loaded from the
// config file. Resolve turns the selected profile into one descriptor
// before the watcher starts; nothing downstream ever inspects profiles.
type ConnectionConfig struct {
	Profile ConnectionProfile

	// Meteor dev settings.
	MeteorHost string
	MeteorPort int
	MeteorDB   string

	// Local database settings. Username/Password may be empty.
	LocalHost       string
	LocalPort       int
	LocalDB         string
	LocalUsername   string
	LocalPassword   string
	LocalAuthSource string

	// Atlas settings.
	AtlasURI string
	AtlasDB  string
}

// ConnectionDescriptor is the single resolved connection target: a URI and
// the database name to use on it.
type ConnectionDescriptor struct {
	URI      string
	Database string
}

// Resolve produces the connection descriptor for the configured profile.
func (c ConnectionConfig) Resolve() (ConnectionDescriptor, error) {
	switch c.Profile {
	case ProfileMeteorDev:
		host, port, db := c.MeteorHost, c.MeteorPort, c.MeteorDB
		if host == "" {
			host = "127.0.0.1"
		}
		if port == 0 {
			port = 3001
		}
		if db == "" {
			db = "meteor"
		}
		return ConnectionDescriptor{
			URI:      fmt.Sprintf("mongodb://%s:%d/%s", host, port, db),
			Database: db,
		}, nil

	case ProfileLocal:
		host, port := c.LocalHost, c.LocalPort
		if host == "" {
			host = "127.0.0.1"
		}
		if port == 0 {
			port = 27017
		}
		if c.LocalDB == "" {
			return ConnectionDescriptor{}, fmt.Errorf("%w: local profile requires a database name", ErrInvalidInput)
		}
		if c.LocalUsername != "" && c.LocalPassword != "" {
			authSource := c.LocalAuthSource
			if authSource == "" {
				authSource = "admin"
			}
			return ConnectionDescriptor{
				URI: fmt.Sprintf("mongodb://%s:%s@%s:%d/?authSource=%s",
					url.QueryEscape(c.LocalUsername), url.QueryEscape(c.LocalPassword),
					host, port, authSource),
				Database: c.LocalDB,
			}, nil
		}
		return ConnectionDescriptor{
			URI:      fmt.Sprintf("mongodb://%s:%d/", host, port),
			Database: c.LocalDB,
		}, nil

	case ProfileAtlas:
		if c.AtlasURI == "" || c.AtlasDB == "" {
			return ConnectionDescriptor{}, fmt.Errorf("%w: atlas profile requires uri and database", ErrInvalidInput)
		}
		return ConnectionDescriptor{URI: c.AtlasURI, Database: c.AtlasDB}, nil

	default:
		return ConnectionDescriptor{}, fmt.Errorf("%w: unknown connection profile %q", ErrInvalidInput, c.Profile)
	}
}
