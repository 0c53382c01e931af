package configs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	req := require.New(t)
	unsetEnv(t, "ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "WORDLIST_SOURCE", "MESSAGE_RATE", "MESSAGE_BURST", "API_RATE", "API_BURST")

	cfg, err := loadFromEnv()

	req.NoError(err)
	req.Equal("development", cfg.Environment)
	req.True(cfg.IsDevelopment())
	req.Equal(8080, cfg.Port)
	req.Equal(WordListBuiltin, cfg.WordListSource)
	req.Equal(10, cfg.MessageBurst)
	req.InDelta(5.0, cfg.MessageRate, 0.0001)
	req.Equal(20, cfg.APIBurst)
	req.InDelta(5.0, cfg.APIRate, 0.0001)
	req.Empty(cfg.AllowedOrigins)
}

func TestLoadFromEnv_ParsesOrigins(t *testing.T) {
	req := require.New(t)
	t.Setenv("ALLOWED_ORIGINS", "https://chat.example.com, https://www.example.com,")

	cfg, err := loadFromEnv()

	req.NoError(err)
	req.Equal([]string{"https://chat.example.com", "https://www.example.com"}, cfg.AllowedOrigins)
}

func TestLoadFromEnv_Rejections(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "privileged port", env: map[string]string{"PORT": "80"}},
		{name: "port not a number", env: map[string]string{"PORT": "eighty"}},
		{name: "production without origins", env: map[string]string{"ENVIRONMENT": "production"}},
		{name: "file source without path", env: map[string]string{"WORDLIST_SOURCE": "file"}},
		{name: "postgres source without dsn", env: map[string]string{"WORDLIST_SOURCE": "postgres"}},
		{name: "s3 source without bucket", env: map[string]string{"WORDLIST_SOURCE": "s3"}},
		{name: "unknown source", env: map[string]string{"WORDLIST_SOURCE": "carrier-pigeon"}},
		{name: "zero burst", env: map[string]string{"MESSAGE_BURST": "0"}},
		{name: "negative api rate", env: map[string]string{"API_RATE": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := loadFromEnv()
			require.Error(t, err)
		})
	}
}

func TestLoadFromEnv_S3Source(t *testing.T) {
	req := require.New(t)
	t.Setenv("WORDLIST_SOURCE", "S3")
	t.Setenv("S3_BUCKET_NAME", "relay")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")

	cfg, err := loadFromEnv()

	req.NoError(err)
	req.Equal(WordListS3, cfg.WordListSource)
	req.Equal("moderation/wordlist.txt", cfg.S3WordListKey)
}
