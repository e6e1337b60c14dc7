package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := load(viper.New(), filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if conf.Server.Port != "8080" {
		t.Errorf("server.port = %q", conf.Server.Port)
	}
	if conf.Reminder.Interval != "@every 1m" || conf.Reminder.LookaheadDays != 1 {
		t.Errorf("reminder = %+v", conf.Reminder)
	}
	if conf.Relay.Lease != 30*time.Second || conf.Relay.Workers != 2 {
		t.Errorf("relay = %+v", conf.Relay)
	}
	if conf.Postgres.MigrationsDir != "resources/migrations" {
		t.Errorf("migrations dir = %q", conf.Postgres.MigrationsDir)
	}
	if conf.Holidays.RetryAfter != 5*time.Minute {
		t.Errorf("holidays.retryAfter = %v", conf.Holidays.RetryAfter)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "SERVER_PORT=9090\nREMINDER_LOOKAHEADDAYS=2\nLOGGING_LEVEL=debug\nHOLIDAYS_FILE=holidays.yaml\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}

	conf, err := load(viper.New(), filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if conf.Server.Port != "9090" {
		t.Errorf("server.port = %q", conf.Server.Port)
	}
	if conf.Reminder.LookaheadDays != 2 {
		t.Errorf("reminder.lookaheadDays = %d", conf.Reminder.LookaheadDays)
	}
	if conf.LoggingLevel != "debug" {
		t.Errorf("logging-level = %q", conf.LoggingLevel)
	}
	if conf.Holidays.File != "holidays.yaml" {
		t.Errorf("holidays.file = %q", conf.Holidays.File)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("POSTGRES_CONN_STRING", "postgres://localhost/calendar")

	conf, err := load(viper.New(), filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if conf.Server.Port != "7070" {
		t.Errorf("server.port = %q", conf.Server.Port)
	}
	if conf.Postgres.ConnString != "postgres://localhost/calendar" {
		t.Errorf("postgres.conn_string = %q", conf.Postgres.ConnString)
	}
}

func TestConfigKeys(t *testing.T) {
	keys := configKeys(reflect.TypeOf(Config{}), "")
	want := map[string]bool{"server.port": false, "broker.kafka.brokers": false, "relay.lease": false, "logging-level": false}
	for _, k := range keys {
		if _, ok := want[k]; ok {
			want[k] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("key %q not collected", k)
		}
	}
	if envName("httpClient.TLSHandshakeTimeout") != "HTTPCLIENT_TLSHANDSHAKETIMEOUT" {
		t.Errorf("envName = %q", envName("httpClient.TLSHandshakeTimeout"))
	}
}
