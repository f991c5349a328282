package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Addr     string   `koanf:"addr"`
	Database Database `koanf:"db"`
	Rates    Rates    `koanf:"rates"`
	Jobs     Jobs     `koanf:"jobs"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Rates struct {
	// URL is the base URL of the exchange rate provider. The API key and
	// base currency are appended as path segments.
	URL            string `koanf:"url"`
	APIKey         string `koanf:"apikey"`
	TimeoutSeconds int    `koanf:"timeoutseconds"`
	TTLMinutes     int    `koanf:"ttlminutes"`
}

type Jobs struct {
	// RecurringSchedule is a cron expression for the recurring
	// transactions job. Default: midnight on the 1st of every month.
	RecurringSchedule string `koanf:"recurringschedule"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Addr: ":8080",
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "fintrack",
			Pass:   "",
			Name:   "fintrack",
			Schema: "fintrack",
		},
		Rates: Rates{
			URL:            "https://v6.exchangerate-api.com/v6",
			TimeoutSeconds: 5,
			TTLMinutes:     60,
		},
		Jobs: Jobs{
			RecurringSchedule: "0 0 1 * *",
		},
	}, "koanf"), nil)
	if err != nil {
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

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "FINTRACK_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FINTRACK_")), "_", ".")
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

	return app, nil
}
