package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// SnowflakeConfig holds the account connection settings.
type SnowflakeConfig struct {
	Account   string `toml:"account"`
	User      string `toml:"user"`
	Password  string `toml:"password"`
	Role      string `toml:"role"`
	Warehouse string `toml:"warehouse"`
	Database  string `toml:"database"`
	Schema    string `toml:"schema"`
}

type connectionFile struct {
	Snowflake SnowflakeConfig `toml:"snowflake"`
}

// LoadConnectionFile reads the [snowflake] table of a connection.toml file.
func LoadConnectionFile(path string) (SnowflakeConfig, error) {
	var f connectionFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return SnowflakeConfig{}, fmt.Errorf("failed to read connection file %s: %w", path, err)
	}
	return f.Snowflake, nil
}

// Merge fills fields left empty in c from other. Values already set win.
func (c SnowflakeConfig) Merge(other SnowflakeConfig) SnowflakeConfig {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.Account, other.Account)
	fill(&c.User, other.User)
	fill(&c.Password, other.Password)
	fill(&c.Role, other.Role)
	fill(&c.Warehouse, other.Warehouse)
	fill(&c.Database, other.Database)
	fill(&c.Schema, other.Schema)
	return c
}
