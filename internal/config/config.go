package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"chalkpad/internal/render"
	"chalkpad/internal/state"
)

const EnvPrefix = "CHALKPAD"

type Config struct {
	Env            string
	Debug          bool
	HTTPAddr       string
	ServeHTTP      bool
	Advertise      bool
	ServiceName    string
	CaptureQuality float64
	CaptureFormat  render.Format
	Pen            state.PenSettings
	WindowWidth    float32
	WindowHeight   float32
}

// Load reads defaults, then root/config/.env.<env> if present, then
// CHALKPAD_* environment variables. env comes from CHALKPAD_ENV (DEV by default).
func Load(root string) (*Config, error) {
	v := viper.New()

	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", false)
	v.SetDefault("httpAddr", ":8888")
	v.SetDefault("serveHTTP", true)
	v.SetDefault("advertise", false)
	v.SetDefault("serviceName", "ChalkPad")
	v.SetDefault("captureQuality", render.DefaultQuality)
	v.SetDefault("captureFormat", string(render.PNG))
	v.SetDefault("penColor", state.DefaultPen.Color)
	v.SetDefault("penWidth", state.DefaultPen.Width)
	v.SetDefault("windowWidth", 1024)
	v.SetDefault("windowHeight", 768)

	env := strings.ToUpper(os.Getenv(EnvPrefix + "_ENV")) // DEV (default), TEST, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("serveHTTP", false)
	}
	v.SetEnvPrefix(EnvPrefix)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
	}
	v.AutomaticEnv()

	return &Config{
		Env:            env,
		Debug:          v.GetBool("debug"),
		HTTPAddr:       v.GetString("httpAddr"),
		ServeHTTP:      v.GetBool("serveHTTP"),
		Advertise:      v.GetBool("advertise"),
		ServiceName:    v.GetString("serviceName"),
		CaptureQuality: v.GetFloat64("captureQuality"),
		CaptureFormat:  render.ParseFormat(v.GetString("captureFormat")),
		Pen: state.PenSettings{
			Color: v.GetString("penColor"),
			Width: v.GetInt("penWidth"),
		},
		WindowWidth:  float32(v.GetFloat64("windowWidth")),
		WindowHeight: float32(v.GetFloat64("windowHeight")),
	}, nil
}
