// Package cli implements calctl, a terminal client for the marketing
// calendar. Every command loads a board.Board from the API (or a seed file),
// drives it through its view and dialog transitions and prints the result.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/keyxmakerx/backoffice/internal/seed"
)

// Config keys, also accepted as CALCTL_<KEY> environment variables.
const (
	keyServer   = "server"
	keySeed     = "seed"
	keyToken    = "token"
	keyTokenDir = "token-dir"
	keyTimezone = "timezone"
	keyType     = "type"
	keyStatus   = "status"
	keyVerbose  = "verbose"
)

const (
	defaultServer   = "http://localhost:8080"
	defaultTokenDir = "~/.calctl/tokens"
)

// settings is the resolved configuration of one invocation.
type settings struct {
	Server   string
	Seed     string
	Token    string
	TokenDir string
	Location *time.Location
	Type     string
	Status   string
	Verbose  bool
}

// addGlobalFlags registers the persistent flags and binds them to v.
func addGlobalFlags(cmd *cobra.Command, v *viper.Viper, configFile *string) {
	f := cmd.PersistentFlags()
	f.StringVar(configFile, "config", "", "Config file (default is $HOME/.calctl.yaml).")
	f.String(keyServer, defaultServer, "Back-office API base URL.")
	f.String(keySeed, "", `Use a YAML seed file instead of the server ("sample" for built-in data). Changes are not saved.`)
	f.String(keyTimezone, "", "IANA timezone for dates (default is the local zone).")
	f.String(keyType, "", "Only show events of this type (e.g. WEBINAR).")
	f.String(keyStatus, "", "Only show events with this status (e.g. PLANNED).")
	f.BoolP(keyVerbose, "v", false, "Log debug output to stderr.")

	for _, k := range []string{keyServer, keySeed, keyTimezone, keyType, keyStatus, keyVerbose} {
		_ = v.BindPFlag(k, f.Lookup(k))
	}
	v.SetDefault(keyTokenDir, defaultTokenDir)
}

// loadSettings reads the config file and environment into settings.
func loadSettings(v *viper.Viper, configFile string) (*settings, error) {
	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".calctl")
		v.SetConfigType("yaml")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("CALCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	s := &settings{
		Server:  strings.TrimRight(v.GetString(keyServer), "/"),
		Seed:    v.GetString(keySeed),
		Token:   v.GetString(keyToken),
		Type:    v.GetString(keyType),
		Status:  v.GetString(keyStatus),
		Verbose: v.GetBool(keyVerbose),
	}

	dir, err := homedir.Expand(v.GetString(keyTokenDir))
	if err != nil {
		return nil, fmt.Errorf("token dir: %w", err)
	}
	s.TokenDir = dir

	if s.Seed != "" && s.Seed != seed.SampleName {
		if s.Seed, err = homedir.Expand(s.Seed); err != nil {
			return nil, fmt.Errorf("seed path: %w", err)
		}
	}

	s.Location = time.Local
	if tz := v.GetString(keyTimezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("timezone: %w", err)
		}
		s.Location = loc
	}
	return s, nil
}

// newLogger builds the stderr logger; verbose enables debug output.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
