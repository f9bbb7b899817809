package driver

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// DefaultConfigFile is read from the working directory when no config file
// is named on the command line.
const DefaultConfigFile = "denuocc.ini"

// Config holds the settings read from a denuocc.ini file.
//
//	[log]
//	LEVEL = info
//	TRACE_PASSES = phase4*
//
//	[include]
//	SYSTEM_PATHS = /usr/include, /usr/local/include
//
//	[passes]
//	DEFAULT = phase1, phase2, phase3, phase4, phase5, phase6, state_print
//
//	[extra_files]
//	config.h = ./gen/config.h
type Config struct {
	LogLevel    string
	TracePasses string // glob of pass names whose output is logged

	SystemPaths []string

	// DefaultPasses is used when no pass is given on the command line. When
	// empty the built-in pipeline is used.
	DefaultPasses []PassSpec

	// ExtraFiles maps an include name to the file holding its contents.
	// They are searched before the system paths.
	ExtraFiles map[string]string
}

func DefaultConfig() *Config {
	return &Config{ExtraFiles: map[string]string{}}
}

// ParseConfig reads a config file's contents. name is only used in errors.
func ParseConfig(data []byte, name string) (*Config, error) {
	// `;` may appear in a pass list, so it cannot start a comment
	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, errors.WithStack(ConfigError{File: name, Err: err})
	}

	cfg := DefaultConfig()
	logSec := file.Section("log")
	cfg.LogLevel = logSec.Key("LEVEL").MustString("")
	cfg.TracePasses = logSec.Key("TRACE_PASSES").MustString("")

	for _, p := range file.Section("include").Key("SYSTEM_PATHS").Strings(",") {
		if p != "" {
			cfg.SystemPaths = append(cfg.SystemPaths, p)
		}
	}

	if list := file.Section("passes").Key("DEFAULT").String(); list != "" {
		cfg.DefaultPasses, err = ParsePassList(list)
		if err != nil {
			return nil, errors.WithStack(ConfigError{File: name, Err: err})
		}
	}

	for alias, path := range file.Section("extra_files").KeysHash() {
		cfg.ExtraFiles[alias] = path
	}
	return cfg, nil
}

// LoadConfig reads the config file at path. An empty path means
// DefaultConfigFile, which may be absent.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultConfigFile
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.WithStack(ConfigError{File: path, Err: err})
	}
	return ParseConfig(data, path)
}
