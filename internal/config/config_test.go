package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "CASHBOOK_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "CASHBOOK_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "CASHBOOK_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "CASHBOOK_TEST_INT_UNSET", setVal: nil, fallback: 42, want: 42},
		{name: "parses valid int", key: "CASHBOOK_TEST_INT_VALID", setVal: strPtr("8080"), fallback: 0, want: 8080},
		{name: "returns fallback for empty string", key: "CASHBOOK_TEST_INT_EMPTY", setVal: strPtr(""), fallback: 25, want: 25},
		{name: "errors on non-numeric", key: "CASHBOOK_TEST_INT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
		{name: "errors on float", key: "CASHBOOK_TEST_INT_FLOAT", setVal: strPtr("3.14"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvInt(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback bool
		want     bool
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "CASHBOOK_TEST_BOOL_UNSET", setVal: nil, fallback: false, want: false},
		{name: "parses true", key: "CASHBOOK_TEST_BOOL_TRUE", setVal: strPtr("true"), fallback: false, want: true},
		{name: "parses 1", key: "CASHBOOK_TEST_BOOL_ONE", setVal: strPtr("1"), fallback: false, want: true},
		{name: "parses 0", key: "CASHBOOK_TEST_BOOL_ZERO", setVal: strPtr("0"), fallback: true, want: false},
		{name: "errors on invalid", key: "CASHBOOK_TEST_BOOL_INV", setVal: strPtr("yes"), fallback: false, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvBool(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "CASHBOOK_TEST_DUR_UNSET", setVal: nil, fallback: 5 * time.Second, want: 5 * time.Second},
		{name: "parses hours", key: "CASHBOOK_TEST_DUR_HR", setVal: strPtr("2h"), fallback: 0, want: 2 * time.Hour},
		{name: "parses composite", key: "CASHBOOK_TEST_DUR_COMP", setVal: strPtr("1h30m"), fallback: 0, want: 90 * time.Minute},
		{name: "errors on invalid", key: "CASHBOOK_TEST_DUR_INV", setVal: strPtr("notaduration"), fallback: 0, wantErr: true},
		{name: "errors on bare number", key: "CASHBOOK_TEST_DUR_BARE", setVal: strPtr("30"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvList(t *testing.T) {
	t.Run("returns fallback when unset", func(t *testing.T) {
		got := getEnvList("CASHBOOK_TEST_LIST_UNSET", []string{"*"})
		assert.Equal(t, []string{"*"}, got)
	})

	t.Run("splits and trims", func(t *testing.T) {
		t.Setenv("CASHBOOK_TEST_LIST_SET", "https://a.example, https://b.example ,,")
		got := getEnvList("CASHBOOK_TEST_LIST_SET", nil)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, got)
	})
}

// ---------------------------------------------------------------------------
// Load()
// ---------------------------------------------------------------------------

func TestLoad_MissingTokenSecret(t *testing.T) {
	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "CASHBOOK_TOKEN_SECRET")
}

func TestLoad_ShortTokenSecret(t *testing.T) {
	t.Setenv("CASHBOOK_TOKEN_SECRET", "tooshort")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CASHBOOK_TOKEN_SECRET", "test-secret-that-is-at-least-32ch")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxConns)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Token.TTL)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Auth.AllowIdentityParam)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_InvalidEnvVars(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		errMsg string
	}{
		{name: "DB_PORT not a number", envKey: "CASHBOOK_DB_PORT", envVal: "abc", errMsg: "CASHBOOK_DB_PORT"},
		{name: "DB_PORT zero", envKey: "CASHBOOK_DB_PORT", envVal: "0", errMsg: "CASHBOOK_DB_PORT"},
		{name: "DB_PORT too high", envKey: "CASHBOOK_DB_PORT", envVal: "65536", errMsg: "CASHBOOK_DB_PORT"},
		{name: "DB_MAX_CONNS zero", envKey: "CASHBOOK_DB_MAX_CONNS", envVal: "0", errMsg: "CASHBOOK_DB_MAX_CONNS"},
		{name: "TOKEN_TTL invalid", envKey: "CASHBOOK_TOKEN_TTL", envVal: "badval", errMsg: "CASHBOOK_TOKEN_TTL"},
		{name: "TOKEN_TTL zero", envKey: "CASHBOOK_TOKEN_TTL", envVal: "0s", errMsg: "CASHBOOK_TOKEN_TTL"},
		{name: "TOKEN_TTL negative", envKey: "CASHBOOK_TOKEN_TTL", envVal: "-1h", errMsg: "CASHBOOK_TOKEN_TTL"},
		{name: "SERVER_READ_TIMEOUT zero", envKey: "CASHBOOK_SERVER_READ_TIMEOUT", envVal: "0s", errMsg: "CASHBOOK_SERVER_READ_TIMEOUT"},
		{name: "SERVER_WRITE_TIMEOUT invalid", envKey: "CASHBOOK_SERVER_WRITE_TIMEOUT", envVal: "notduration", errMsg: "CASHBOOK_SERVER_WRITE_TIMEOUT"},
		{name: "REDIS_DB not a number", envKey: "CASHBOOK_REDIS_DB", envVal: "abc", errMsg: "CASHBOOK_REDIS_DB"},
		{name: "ALLOW_IDENTITY_PARAM not a bool", envKey: "CASHBOOK_ALLOW_IDENTITY_PARAM", envVal: "yes", errMsg: "CASHBOOK_ALLOW_IDENTITY_PARAM"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Always set the secret so failures are from the var under test.
			t.Setenv("CASHBOOK_TOKEN_SECRET", "test-secret-for-error-cases-32ch!")
			t.Setenv(tc.envKey, tc.envVal)

			cfg, err := Load()
			require.Error(t, err, "expected error for %s=%q", tc.envKey, tc.envVal)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "s3cret",
		DBName:   "cashbook",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=app password=s3cret dbname=cashbook sslmode=require",
		c.DSN())
}

func TestRedisConfig_Enabled(t *testing.T) {
	assert.False(t, (&RedisConfig{}).Enabled())
	assert.True(t, (&RedisConfig{Addr: "localhost:6379"}).Enabled())
}

func strPtr(s string) *string { return &s }
