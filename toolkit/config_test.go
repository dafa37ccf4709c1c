package toolkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBearerConfig() Config {
	return Config{
		Endpoint:       "https://api.example.com/graphql",
		AuthMode:       AuthModeBearer,
		BearerToken:    "abc123",
		TimeoutSeconds: 30,
		ErrorPolicy:    ErrorPolicyStrict,
	}
}

func TestValidate_Bearer(t *testing.T) {
	require.NoError(t, validBearerConfig().Validate())

	cfg := validBearerConfig()
	cfg.BearerToken = "  "
	var cerr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cerr)
	assert.Equal(t, "auth.bearer_token", cerr.Field)
}

func TestValidate_OAuthRequiresFullTuple(t *testing.T) {
	cfg := validBearerConfig()
	cfg.AuthMode = AuthModeOAuth
	cfg.OAuth = OAuthConfig{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		TenantID:     "tenant-1",
		Scope:        "api://resource/.default",
	}
	require.NoError(t, cfg.Validate())

	cfg.OAuth.ClientSecret = ""
	cfg.OAuth.Scope = ""
	var cerr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cerr)
	assert.Contains(t, cerr.Reason, "client_secret")
	assert.Contains(t, cerr.Reason, "scope")
}

func TestValidate_Endpoint(t *testing.T) {
	cfg := validBearerConfig()
	cfg.Endpoint = ""
	var cerr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cerr)

	cfg.Endpoint = "not-a-url"
	require.ErrorAs(t, cfg.Validate(), &cerr)
	assert.Equal(t, "endpoint", cerr.Field)
}

func TestValidate_UnknownModeAndPolicy(t *testing.T) {
	cfg := validBearerConfig()
	cfg.AuthMode = "kerberos"
	var cerr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cerr)

	cfg = validBearerConfig()
	cfg.ErrorPolicy = "lenient"
	require.ErrorAs(t, cfg.Validate(), &cerr)
	assert.Equal(t, "error_policy", cerr.Field)
}

func TestValidate_Timeout(t *testing.T) {
	cfg := validBearerConfig()
	cfg.TimeoutSeconds = 0
	var cerr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cerr)
	assert.Equal(t, "timeout_seconds", cerr.Field)
}

func TestLoadConfig_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
endpoint: https://api.example.com/graphql
auth:
  mode: bearer
  bearer_token: file-token
dirs:
  queries: q
  schemas: s
  reports: r
timeout_seconds: 10
error_policy: tolerant
insecure_skip_verify: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gqlcheck.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/graphql", cfg.Endpoint)
	assert.Equal(t, "file-token", cfg.BearerToken)
	assert.Equal(t, "q", cfg.QueryDir)
	assert.Equal(t, "s", cfg.SchemaDir)
	assert.Equal(t, "r", cfg.ReportDir)
	assert.Equal(t, 10, cfg.TimeoutSeconds)
	assert.Equal(t, ErrorPolicyTolerant, cfg.ErrorPolicy)
	assert.True(t, cfg.InsecureSkipVerify)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GQLCHECK_ENDPOINT", "https://env.example.com/graphql")
	t.Setenv("GQLCHECK_AUTH_BEARER_TOKEN", "env-token")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com/graphql", cfg.Endpoint)
	assert.Equal(t, "env-token", cfg.BearerToken)
	assert.Equal(t, 30, cfg.TimeoutSeconds, "defaults survive when not overridden")
	assert.Equal(t, ErrorPolicyStrict, cfg.ErrorPolicy)
}

func TestLoadConfig_MissingCredentialsIsFatal(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Zero(t, cfg)
}
