package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/klokku/spendpace/pkg/period"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "SPENDPACE_"

type Application struct {
	Host     string   `koanf:"host"`
	Server   Server   `koanf:"server"`
	Database Database `koanf:"db"`
	Metrics  Metrics  `koanf:"metrics"`
	Periods  Periods  `koanf:"periods"`
	Insights Insights `koanf:"insights"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
	// MaxConns caps the pgx pool size.
	MaxConns int32 `koanf:"maxconns"`
}

type Metrics struct {
	Enabled bool `koanf:"enabled"`
}

// Periods holds the calendar defaults given to users that did not choose their own.
type Periods struct {
	FirstWeekday    string `koanf:"firstweekday"`
	FirstDayOfMonth int    `koanf:"firstdayofmonth"`
}

type Insights struct {
	CacheSize int `koanf:"cachesize"`
}

// PeriodConfig parses the defaults. Load has already validated them.
func (p Periods) PeriodConfig() (period.Config, error) {
	weekday, err := period.ParseWeekday(p.FirstWeekday)
	if err != nil {
		return period.Config{}, err
	}
	cfg := period.Config{FirstWeekday: weekday, FirstDayOfMonth: p.FirstDayOfMonth}
	return cfg, cfg.Validate()
}

func defaults() Application {
	return Application{
		Host:   "http://localhost:8181",
		Server: Server{Addr: ":8181"},
		Database: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "spendpace",
			Pass:     "",
			Name:     "spendpace",
			Schema:   "spendpace",
			MaxConns: 10,
		},
		Metrics: Metrics{Enabled: true},
		Periods: Periods{
			FirstWeekday:    "monday",
			FirstDayOfMonth: 1,
		},
		Insights: Insights{CacheSize: 512},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			// SPENDPACE_DB_HOST -> db.host
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if _, err := app.Periods.PeriodConfig(); err != nil {
		return Application{}, fmt.Errorf("invalid periods configuration: %w", err)
	}
	if app.Insights.CacheSize <= 0 {
		return Application{}, fmt.Errorf("insights.cachesize must be positive, got %d", app.Insights.CacheSize)
	}
	return app, nil
}
