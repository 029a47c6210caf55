// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/constant"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "EDIFICE_CONFIG_PATH"

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden with the EDIFICE_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return filesystem.EnsureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return filesystem.EnsureDir(filepath.Join(base, constant.Edifice))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return filesystem.EnsureDir(filepath.Join(base, constant.Edifice))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return filesystem.EnsureDir(filepath.Join(Config(), "logs"))
}

// Workspace resolves the directory holding the cached folder tree and quota.
func Workspace() string {
	return filesystem.EnsureDir(filepath.Join(Cache(), "workspace"))
}

// History resolves the file recording visited sections.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the file recording selectors used by the list command.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}
