package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// ErrMissingVariable is returned for each required environment variable that is unset.
var ErrMissingVariable = errors.New("required environment variable is not set")

// Environment variables read by the mongo image entrypoint. They carry no prefix.
const (
	EnvRootUsername = "MONGO_INITDB_ROOT_USERNAME"
	EnvRootPassword = "MONGO_INITDB_ROOT_PASSWORD"
	EnvAppUser      = "DB_USER"
	EnvAppPassword  = "DB_PASS"
	EnvAppDatabase  = "DB_NAME"
)

// EnvPrefix is applied to every optional setting, e.g. DBINIT_URI.
const EnvPrefix = "DBINIT"

type Arguments struct {
	// Connection string of the server to provision
	URI string `mapstructure:"uri"`

	// Reported to the server in the client handshake
	AppName string `mapstructure:"app_name"`

	// Administrative principal, authenticated against the admin database
	Root RootCredentials `mapstructure:"root"`

	// The application user and the database it will own
	App AppUser `mapstructure:"app"`

	// Upper bound for the whole run
	Timeout time.Duration `mapstructure:"timeout"`

	ServerSelectionTimeout time.Duration `mapstructure:"server_selection_timeout"`
	MaxIdleTime            time.Duration `mapstructure:"max_idle_time"`

	// Treat an existing user or collection as already provisioned instead of failing
	Idempotent bool `mapstructure:"idempotent"`

	// Create camera as a time-series collection keyed on timestamp
	CameraTimeSeries bool `mapstructure:"camera_timeseries"`

	LogLevel string `mapstructure:"log_level"`
	Debug    bool   `mapstructure:"debug"`
}

type RootCredentials struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type AppUser struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// Load reads settings from the optional YAML file at path, then overlays
// environment variables. Optional settings use the DBINIT_ prefix
// (DBINIT_SERVER_SELECTION_TIMEOUT); credentials use the unprefixed names
// the mongo image already defines.
func Load(path string) (*Arguments, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"root.username": EnvRootUsername,
		"root.password": EnvRootPassword,
		"app.username":  EnvAppUser,
		"app.password":  EnvAppPassword,
		"app.database":  EnvAppDatabase,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var args Arguments
	if err := v.Unmarshal(&args); err != nil {
		return nil, fmt.Errorf("unmarshalling settings: %w", err)
	}

	return &args, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("uri", "mongodb://localhost:27017")
	v.SetDefault("app_name", "rainsim-dbinit")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("server_selection_timeout", 3*time.Second)
	v.SetDefault("max_idle_time", 3*time.Second)
	v.SetDefault("idempotent", false)
	v.SetDefault("camera_timeseries", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)
}

// Validate reports every required variable that is empty, not just the first.
func (a *Arguments) Validate() error {
	var err error
	required := []struct {
		env   string
		value string
	}{
		{EnvRootUsername, a.Root.Username},
		{EnvRootPassword, a.Root.Password},
		{EnvAppUser, a.App.Username},
		{EnvAppPassword, a.App.Password},
		{EnvAppDatabase, a.App.Database},
	}
	for _, r := range required {
		if r.value == "" {
			err = multierr.Append(err, fmt.Errorf("%w: %s", ErrMissingVariable, r.env))
		}
	}

	if a.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("invalid timeout %s: must be positive", a.Timeout))
	}

	return err
}
