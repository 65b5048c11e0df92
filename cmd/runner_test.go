package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/delegatify/internal/models"
	"github.com/desertthunder/delegatify/internal/repositories"
	"github.com/desertthunder/delegatify/internal/services"
	"github.com/desertthunder/delegatify/internal/session"
	"github.com/desertthunder/delegatify/internal/shared"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func newTestRunner(config *shared.Config) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	return NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: output,
	}), output
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClientFor(config) != httpClient {
				t.Error("expected httpClient to be used")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			if NewRunner(RunnerOpts{}).logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			if NewRunner(RunnerOpts{}).output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses configured timeout", func(t *testing.T) {
			config := shared.DefaultConfig()
			client := NewRunner(RunnerOpts{}).httpClientFor(config)
			if client.Timeout != config.Bot.HTTPTimeout() {
				t.Errorf("expected timeout %v, got %v", config.Bot.HTTPTimeout(), client.Timeout)
			}
		})
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("missing file uses defaults", func(t *testing.T) {
			runner, _ := newTestRunner(nil)
			config, err := runner.loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if config.Bot.CooldownSeconds != 10 {
				t.Errorf("expected default cooldown, got %d", config.Bot.CooldownSeconds)
			}
		})

		t.Run("malformed file", func(t *testing.T) {
			runner, _ := newTestRunner(nil)
			_, err := runner.loadConfig(writeConfig(t, "[discord\ntoken = "))
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("reads file once", func(t *testing.T) {
			runner, _ := newTestRunner(nil)
			path := writeConfig(t, "[discord]\ntoken = \"abc\"\n")

			first, err := runner.loadConfig(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			os.Remove(path)

			second, err := runner.loadConfig(path)
			if err != nil || second != first || second.Discord.Token != "abc" {
				t.Errorf("expected cached config, got %+v, %v", second, err)
			}
		})
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("setup config writes template once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		runner, output := newTestRunner(nil)
		if err := runner.App().Run(context.Background(), []string{"delegatify", "--config", path, "setup", "config"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected config file: %v", err)
		}
		if !strings.Contains(output.String(), "Configuration written") {
			t.Errorf("unexpected output %q", output.String())
		}

		again, _ := newTestRunner(nil)
		if err := again.App().Run(context.Background(), []string{"delegatify", "--config", path, "setup", "config"}); err == nil {
			t.Error("expected error when config exists")
		}
	})

	t.Run("setup database and audit list", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "delegatify.db")
		config := shared.DefaultConfig()
		config.Database.Path = dbPath

		runner, _ := newTestRunner(config)
		if err := runner.App().Run(context.Background(), []string{"delegatify", "setup", "database"}); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}

		db, err := shared.NewDatabase(dbPath)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		repo := repositories.NewAuthEventRepository(db)
		for _, e := range []*models.AuthEvent{
			models.NewAuthEvent(0, "1001", models.AuthFailed, "invalid_grant"),
			models.NewAuthEvent(0, "1001", models.AuthSucceeded, ""),
			models.NewAuthEvent(0, "2002", models.AuthDismissed, ""),
		} {
			if err := repo.Create(e); err != nil {
				t.Fatalf("failed to create event: %v", err)
			}
		}
		db.Close()

		lister, output := newTestRunner(config)
		args := []string{"delegatify", "audit", "list", "--json", "--user", "1001"}
		if err := lister.App().Run(context.Background(), args); err != nil {
			t.Fatalf("audit list failed: %v", err)
		}

		var entries []auditEntry
		if err := json.Unmarshal(output.Bytes(), &entries); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, output.String())
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Outcome != "succeeded" || entries[1].Detail != "invalid_grant" {
			t.Errorf("expected newest first, got %+v", entries)
		}

		table, tableOut := newTestRunner(config)
		if err := table.App().Run(context.Background(), []string{"delegatify", "audit", "list", "--outcome", "dismissed"}); err != nil {
			t.Fatalf("audit list failed: %v", err)
		}
		if !strings.Contains(tableOut.String(), "2002") || strings.Contains(tableOut.String(), "invalid_grant") {
			t.Errorf("unexpected table output:\n%s", tableOut.String())
		}
	})

	t.Run("audit list rejects unknown outcome", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "delegatify.db")

		runner, _ := newTestRunner(config)
		err := runner.App().Run(context.Background(), []string{"delegatify", "audit", "list", "--outcome", "maybe"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("database path required", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = ""

		runner, _ := newTestRunner(config)
		err := runner.App().Run(context.Background(), []string{"delegatify", "setup", "database"})
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("requires discord token", func(t *testing.T) {
		runner, _ := newTestRunner(shared.DefaultConfig())
		err := runner.App().Run(context.Background(), []string{"delegatify", "run"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("authorizer factory", func(t *testing.T) {
		config := shared.DefaultConfig()
		runner, _ := newTestRunner(config)

		if _, err := runner.authorizerFactory(config)(); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials for template credentials, got %v", err)
		}

		config.Credentials.Spotify.ClientID = "id"
		config.Credentials.Spotify.ClientSecret = "secret"
		authorizer, err := runner.authorizerFactory(config)()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if url := authorizer.AuthURL("state"); !strings.Contains(url, "client_id=id") {
			t.Errorf("unexpected authorize URL %q", url)
		}
	})

	t.Run("router registers both commands", func(t *testing.T) {
		config := shared.DefaultConfig()
		runner, _ := newTestRunner(config)

		router := runner.newRouter(config, session.New[services.PlaybackClient](), nil)
		commands := router.Commands()
		if len(commands) != 2 || commands[0].Name != "authenticate" || commands[1].Name != "current" {
			t.Errorf("unexpected commands %v", commands)
		}
	})
}
