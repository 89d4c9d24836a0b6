package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		AppName  string
		Env      string // DEV (default), TEST, QA, PROD
		Build    string

		API     APIConfig
		Kiosk   KioskConfig
		Rollbar RollbarConfig

		// SessionFile is where the admin auth token is persisted between runs.
		SessionFile string
	}

	APIConfig struct {
		BaseURL string
		// Timeout applies to every request except presence submission,
		// which carries no client-enforced timeout.
		Timeout time.Duration
	}

	KioskConfig struct {
		DevicePath  string
		FrameWidth  int
		FrameHeight int
		// RetakeDelay lets the device free up between releasing a stream
		// and requesting a new one.
		RetakeDelay    time.Duration
		SuccessDisplay time.Duration
		ErrorDisplay   time.Duration

		Locator   string // "static" | "ip"
		Latitude  float64
		Longitude float64
	}

	RollbarConfig struct {
		Token string
	}
)

// LoadConfig reads configuration from the environment, with an optional
// config/.env.<env> file loaded first.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Presence")
	v.SetDefault("apiBaseUrl", "http://localhost:3000")
	v.SetDefault("apiTimeout", 30*time.Second)
	v.SetDefault("sessionFile", defaultSessionFile())
	v.SetDefault("kioskDevicePath", "/dev/video0")
	v.SetDefault("kioskFrameWidth", 1280)
	v.SetDefault("kioskFrameHeight", 720)
	v.SetDefault("kioskRetakeDelay", 100*time.Millisecond)
	v.SetDefault("kioskSuccessDisplay", 2*time.Second)
	v.SetDefault("kioskErrorDisplay", 4*time.Second)
	v.SetDefault("kioskLocator", "static")

	env := os.Getenv("ENV")
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:       v.GetBool("debug"),
		TestMode:    env == "TEST",
		AppName:     v.GetString("appName"),
		Env:         env,
		Build:       v.GetString("build"),
		SessionFile: v.GetString("sessionFile"),
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("apiBaseUrl"), "/"),
			Timeout: v.GetDuration("apiTimeout"),
		},
		Kiosk: KioskConfig{
			DevicePath:     v.GetString("kioskDevicePath"),
			FrameWidth:     v.GetInt("kioskFrameWidth"),
			FrameHeight:    v.GetInt("kioskFrameHeight"),
			RetakeDelay:    v.GetDuration("kioskRetakeDelay"),
			SuccessDisplay: v.GetDuration("kioskSuccessDisplay"),
			ErrorDisplay:   v.GetDuration("kioskErrorDisplay"),
			Locator:        v.GetString("kioskLocator"),
			Latitude:       v.GetFloat64("kioskLatitude"),
			Longitude:      v.GetFloat64("kioskLongitude"),
		},
		Rollbar: RollbarConfig{
			Token: v.GetString("rollbarToken"),
		},
	}
	return conf, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".presence-session"
	}
	return filepath.Join(home, ".config", "presence", "session")
}
