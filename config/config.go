/*
 * config.go, part of gomappings.
 *
 * Copyright 2025 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package config reads the gomappings settings from a YAML file and the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	mappings "github.com/rmera/gomappings"
)

//Environment variables that override the file settings
const (
	EnvLab     = "MAPPINGS_LAB"
	EnvWorkers = "GOMAP_WORKERS"
	EnvCatalog = "GOMAP_CATALOG"
)

//CatalogName is the file name of the run catalog when none is given.
const CatalogName = "gomappings.db"

//Log contains the logging settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

//Config contains the settings for running MAPPINGS.
type Config struct {
	Lab        string `yaml:"lab"`
	Executable string `yaml:"executable"`
	Workers    int    `yaml:"workers"`
	KeepGoing  bool   `yaml:"keep_going"`
	KeepLogs   bool   `yaml:"keep_logs"`
	Catalog    string `yaml:"catalog"`
	Log        Log    `yaml:"log"`
}

func configError(info, caller string, cause error) *mappings.Error {
	return mappings.NewError(mappings.ErrConfig, "", info, caller).WithCause(cause)
}

//Default returns the default configuration. It does not read the environment.
func Default() *Config {
	return &Config{
		Lab:        "~/mappings520/lab",
		Executable: mappings.DefaultExecutable,
		Workers:    1,
		KeepLogs:   true,
		Log:        Log{Level: "info", Format: "console"},
	}
}

//Load reads the configuration in path over the defaults, then applies the environment overrides.
//An empty path, or one that doesn't exist, gives the defaults.
func Load(path string) (*Config, error) {
	C := Default()
	if path != "" {
		path = mappings.ExpandHome(path)
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, configError("unable to read file", "Load", err).WithFile(path)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, C); err != nil {
				return nil, configError("unable to parse file", "Load", err).WithFile(path)
			}
		}
	}
	if err := C.applyEnv(); err != nil {
		return nil, mappings.ErrDecorate(err, "Load")
	}
	C.Lab = mappings.ExpandHome(C.Lab)
	C.Catalog = mappings.ExpandHome(C.Catalog)
	return C, C.Validate()
}

func (C *Config) applyEnv() error {
	if lab := os.Getenv(EnvLab); lab != "" {
		C.Lab = lab
	}
	if w := os.Getenv(EnvWorkers); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return configError(EnvWorkers+" must be an integer", "applyEnv", err)
		}
		C.Workers = n
	}
	if cat := os.Getenv(EnvCatalog); cat != "" {
		C.Catalog = cat
	}
	return nil
}

//Save writes the configuration to path, creating the directory if needed.
func (C *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return configError("unable to create directory", "Save", err).WithFile(path)
	}
	data, err := yaml.Marshal(C)
	if err != nil {
		return configError("unable to marshal", "Save", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return configError("unable to write file", "Save", err).WithFile(path)
	}
	return nil
}

//Validate checks the configuration.
func (C *Config) Validate() error {
	if C.Workers < 1 {
		return configError("workers must be at least 1, got "+strconv.Itoa(C.Workers), "Validate", nil)
	}
	if C.Lab == "" {
		return configError("no lab directory", "Validate", nil)
	}
	if _, err := zapcore.ParseLevel(C.Log.Level); err != nil {
		return configError("unknown log level", "Validate", err)
	}
	switch strings.ToLower(C.Log.Format) {
	case "", "console", "json":
	default:
		return configError("unknown log format "+C.Log.Format, "Validate", nil)
	}
	return nil
}

//MappingsLab returns the MAPPINGS lab the configuration points to.
func (C *Config) MappingsLab() *mappings.Lab {
	return &mappings.Lab{Dir: mappings.ExpandHome(C.Lab), Executable: C.Executable}
}

//CatalogPath returns the run catalog file. By default it is kept in the lab directory.
func (C *Config) CatalogPath() string {
	if C.Catalog != "" {
		return mappings.ExpandHome(C.Catalog)
	}
	return filepath.Join(mappings.ExpandHome(C.Lab), CatalogName)
}

//Logger builds a zap logger for the log settings. If verbose is true,
//the level is lowered to debug.
func (C *Config) Logger(verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(C.Log.Level)
	if err != nil {
		return nil, configError("unknown log level", "Logger", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if strings.ToLower(C.Log.Format) != "json" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, configError("unable to build logger", "Logger", err)
	}
	return logger, nil
}
