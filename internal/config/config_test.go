package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadHarnessConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg HarnessConfig)
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg HarnessConfig) {
				assert.Equal(t, DefaultHarnessConfig(), cfg)
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"LIBCHECK_URL":        "http://app.test/index.html",
				"LIBCHECK_HEADLESS":   "false",
				"LIBCHECK_POLL_MS":    "50",
				"LIBCHECK_SETTLE_MS":  "0",
				"LIBCHECK_TIMEOUT_MS": "1500",
				"LIBCHECK_CONTRACT":   "contract.yaml",
			},
			check: func(t *testing.T, cfg HarnessConfig) {
				assert.Equal(t, "http://app.test/index.html", cfg.BaseURL)
				assert.False(t, cfg.Headless)
				assert.Equal(t, 50*time.Millisecond, cfg.PollInterval)
				assert.Equal(t, time.Duration(0), cfg.Settle)
				assert.Equal(t, 1500*time.Millisecond, cfg.DefaultTimeout)
				assert.Equal(t, "contract.yaml", cfg.ContractPath)
			},
		},
		{
			name:    "invalid boolean",
			env:     map[string]string{"LIBCHECK_HEADLESS": "maybe"},
			wantErr: true,
		},
		{
			name:    "invalid duration",
			env:     map[string]string{"LIBCHECK_SETTLE_MS": "-1"},
			wantErr: true,
		},
		{
			name:    "zero poll interval",
			env:     map[string]string{"LIBCHECK_POLL_MS": "0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadHarnessConfig(envMap(tt.env))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadContract(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		contract, err := LoadContract("")
		require.NoError(t, err)
		assert.Equal(t, DefaultContract(), contract)
	})

	t.Run("file overrides keep unspecified defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "contract.yaml")
		data := []byte("page_title: Library\nmenu:\n  authors: Authors\n  books: Books\ntable:\n  year_column: Year\n")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		contract, err := LoadContract(path)
		require.NoError(t, err)
		assert.Equal(t, "Library", contract.PageTitle)
		assert.Equal(t, "Authors", contract.Menu.Authors)
		assert.Equal(t, "Year", contract.Table.YearColumn)
		assert.Equal(t, "#mainInput", contract.Page.SearchInput)
		assert.Equal(t, "Додати автора", contract.Menu.AddAuthor)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadContract(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("blanked required selector", func(t *testing.T) {
		contract := DefaultContract()
		err := ParseContract([]byte("table:\n  row: \"\"\n"), &contract)
		assert.ErrorContains(t, err, "table.row")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		contract := DefaultContract()
		assert.Error(t, ParseContract([]byte("menu: [unterminated"), &contract))
	})
}

func TestLoadReportDBConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantNil  bool
		wantErr  bool
		wantConn string
	}{
		{
			name:    "disabled without host",
			env:     map[string]string{"LIBCHECK_DB_USER": "postgres"},
			wantNil: true,
		},
		{
			name: "complete",
			env: map[string]string{
				"LIBCHECK_DB_HOST":     "localhost",
				"LIBCHECK_DB_USER":     "postgres",
				"LIBCHECK_DB_PASSWORD": "secret",
				"LIBCHECK_DB_NAME":     "libcheck",
			},
			wantConn: "host=localhost user=postgres password=secret dbname=libcheck sslmode=disable",
		},
		{
			name:    "missing user",
			env:     map[string]string{"LIBCHECK_DB_HOST": "localhost", "LIBCHECK_DB_NAME": "libcheck"},
			wantErr: true,
		},
		{
			name:    "missing database",
			env:     map[string]string{"LIBCHECK_DB_HOST": "localhost", "LIBCHECK_DB_USER": "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadReportDBConfig(envMap(tt.env))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, cfg)
				return
			}
			require.NotNil(t, cfg)
			assert.Equal(t, tt.wantConn, cfg.ConnectionString())
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	assert.Equal(t, "8090", LoadServerConfig(envMap(nil)).Port)
	assert.Equal(t, "9000", LoadServerConfig(envMap(map[string]string{"LIBCHECK_PORT": "9000"})).Port)
}
