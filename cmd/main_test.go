package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"testing"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	expected := "config.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()
	expected := "myconfig.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	out := buf.String()

	expected := fmt.Sprintf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
	if out != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	appHost, appPort, logLevel, emailCaseSensitive,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		kafkaBroker, kafkaTopic,
		err := parseConfig("nonexistent.env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if appHost != "localhost" || appPort != "8080" || logLevel != "info" {
		t.Errorf("unexpected app defaults: %s %s %s", appHost, appPort, logLevel)
	}
	if emailCaseSensitive {
		t.Error("email matching should be case-insensitive by default")
	}
	if pgHost != "localhost" || pgPort != 5432 || pgUser != "user" || pgPassword != "password" || pgDB != "database" {
		t.Errorf("unexpected postgres defaults: %s %d %s %s %s", pgHost, pgPort, pgUser, pgPassword, pgDB)
	}
	if pgMaxOpenConns != 16 || pgMaxIdleConns != 8 {
		t.Errorf("unexpected pool defaults: %d %d", pgMaxOpenConns, pgMaxIdleConns)
	}
	if kafkaBroker != "" {
		t.Errorf("kafka should be disabled by default, got broker %q", kafkaBroker)
	}
	if kafkaTopic != "user-registrations" {
		t.Errorf("unexpected kafka topic default: %s", kafkaTopic)
	}
}

func TestParseConfig_Overrides(t *testing.T) {
	resetEnv()

	os.Setenv("APP_PORT", "9090")
	os.Setenv("APP_EMAIL_CASE_SENSITIVE", "true")
	os.Setenv("POSTGRES_PORT", "6543")
	os.Setenv("KAFKA_BROKER", "localhost:9092")
	defer resetEnv()

	_, appPort, _, emailCaseSensitive,
		_, pgPort, _, _, _,
		_, _,
		kafkaBroker, _,
		err := parseConfig("nonexistent.env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if appPort != "9090" {
		t.Errorf("expected port 9090, got %s", appPort)
	}
	if !emailCaseSensitive {
		t.Error("expected case-sensitive email matching")
	}
	if pgPort != 6543 {
		t.Errorf("expected postgres port 6543, got %d", pgPort)
	}
	if kafkaBroker != "localhost:9092" {
		t.Errorf("expected kafka broker, got %q", kafkaBroker)
	}
}

func TestParseConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid postgres port", "POSTGRES_PORT", "not-a-number"},
		{"invalid max open conns", "POSTGRES_MAX_OPEN_CONNS", "abc"},
		{"invalid max idle conns", "POSTGRES_MAX_IDLE_CONNS", "abc"},
		{"invalid email case flag", "APP_EMAIL_CASE_SENSITIVE", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEnv()
			os.Setenv(tt.key, tt.value)
			defer resetEnv()

			_, _, _, _, _, _, _, _, _, _, _, _, _, err := parseConfig("nonexistent.env")
			if err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
