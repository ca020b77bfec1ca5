package store

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/daybook/pkg/pomodoro"
)

// Config is the resolved application configuration.
type Config interface {
	BasePath() string
	LogFile() string
	LogLevel() string
	Theme() string
	Pomodoro() pomodoro.Config
}

// LoadConfig reads .daybook.yaml (from DAYBOOK_CONFIG_PATH, the home
// directory or the working directory) and DAYBOOK_* environment overrides.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.daybook")
	v.SetDefault("theme", "auto")
	v.SetDefault("log.level", "info")
	v.SetDefault("pomodoro.focus", "25m")
	v.SetDefault("pomodoro.short", "5m")
	v.SetDefault("pomodoro.long", "15m")
	v.SetDefault("pomodoro.rounds", 4)

	v.SetConfigName(".daybook") // .yaml is implicit
	v.SetEnvPrefix("DAYBOOK")
	v.AutomaticEnv()

	if override := os.Getenv("DAYBOOK_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	base, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, err
	}
	logFile := v.GetString("log.file")
	if logFile == "" {
		logFile = filepath.Join(base, "daybook.log")
	} else if logFile, err = homedir.Expand(logFile); err != nil {
		return nil, err
	}

	return &fileConfig{
		Path:   base,
		Log:    logFile,
		Level:  v.GetString("log.level"),
		Scheme: v.GetString("theme"),
		Focus:  v.GetDuration("pomodoro.focus"),
		Short:  v.GetDuration("pomodoro.short"),
		Long:   v.GetDuration("pomodoro.long"),
		Rounds: v.GetInt("pomodoro.rounds"),
	}, nil
}

type fileConfig struct {
	Path   string        `json:"path"`
	Log    string        `json:"log"`
	Level  string        `json:"level"`
	Scheme string        `json:"theme"`
	Focus  time.Duration `json:"focus"`
	Short  time.Duration `json:"short"`
	Long   time.Duration `json:"long"`
	Rounds int           `json:"rounds"`
}

func (f *fileConfig) BasePath() string { return f.Path }
func (f *fileConfig) LogFile() string  { return f.Log }
func (f *fileConfig) LogLevel() string { return f.Level }
func (f *fileConfig) Theme() string    { return f.Scheme }

func (f *fileConfig) Pomodoro() pomodoro.Config {
	return pomodoro.Config{
		Focus:      f.Focus,
		ShortBreak: f.Short,
		LongBreak:  f.Long,
		Rounds:     f.Rounds,
	}.Normalize()
}
