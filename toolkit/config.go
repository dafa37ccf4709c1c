package toolkit

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConfigError means the harness cannot run at all: a missing endpoint or an
// incomplete credential tuple. It aborts the session before any test runs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// LoadConfig reads a .env file (best effort), then an optional gqlcheck.yaml
// from configPath, then environment overrides with the GQLCHECK_ prefix.
func LoadConfig(configPath string) (Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Printf("toolkit.config: loaded .env file")
	}

	cfg := Config{
		QueryDir:       "graphql_queries",
		SchemaDir:      "schemas",
		ReportDir:      "test-reports",
		AuthMode:       AuthModeBearer,
		TimeoutSeconds: 30,
		ErrorPolicy:    ErrorPolicyStrict,
	}

	v := viper.New()
	v.SetConfigName("gqlcheck")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv() // allow environment overrides
	v.SetEnvPrefix("GQLCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("endpoint")
	v.BindEnv("auth.mode")
	v.BindEnv("auth.bearer_token")
	v.BindEnv("auth.client_id")
	v.BindEnv("auth.client_secret")
	v.BindEnv("auth.tenant_id")
	v.BindEnv("auth.scope")
	v.BindEnv("dirs.queries")
	v.BindEnv("dirs.schemas")
	v.BindEnv("dirs.reports")
	v.BindEnv("timeout_seconds")
	v.BindEnv("error_policy")
	v.BindEnv("insecure_skip_verify")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("toolkit.config: no gqlcheck.yaml found, using defaults and env vars")
	} else {
		log.Printf("toolkit.config: loaded %s", v.ConfigFileUsed())
	}

	if v.IsSet("endpoint") {
		cfg.Endpoint = v.GetString("endpoint")
	}
	if v.IsSet("auth.mode") {
		cfg.AuthMode = strings.ToLower(v.GetString("auth.mode"))
	}
	if v.IsSet("auth.bearer_token") {
		cfg.BearerToken = v.GetString("auth.bearer_token")
	}
	if v.IsSet("auth.client_id") {
		cfg.OAuth.ClientID = v.GetString("auth.client_id")
	}
	if v.IsSet("auth.client_secret") {
		cfg.OAuth.ClientSecret = v.GetString("auth.client_secret")
	}
	if v.IsSet("auth.tenant_id") {
		cfg.OAuth.TenantID = v.GetString("auth.tenant_id")
	}
	if v.IsSet("auth.scope") {
		cfg.OAuth.Scope = v.GetString("auth.scope")
	}
	if v.IsSet("dirs.queries") {
		cfg.QueryDir = v.GetString("dirs.queries")
	}
	if v.IsSet("dirs.schemas") {
		cfg.SchemaDir = v.GetString("dirs.schemas")
	}
	if v.IsSet("dirs.reports") {
		cfg.ReportDir = v.GetString("dirs.reports")
	}
	if v.IsSet("timeout_seconds") {
		cfg.TimeoutSeconds = v.GetInt("timeout_seconds")
	}
	if v.IsSet("error_policy") {
		cfg.ErrorPolicy = strings.ToLower(v.GetString("error_policy"))
	}
	if v.IsSet("insecure_skip_verify") {
		cfg.InsecureSkipVerify = v.GetBool("insecure_skip_verify")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	log.Printf("toolkit.config: loaded endpoint=%s auth_mode=%s policy=%s timeout_s=%d token_present=%t",
		cfg.Endpoint, cfg.AuthMode, cfg.ErrorPolicy, cfg.TimeoutSeconds, cfg.BearerToken != "")
	return cfg, nil
}

// Validate checks the credential tuple for the selected auth mode. A config
// that fails here aborts the whole run; nothing can proceed without a
// working client.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return &ConfigError{Field: "endpoint", Reason: "endpoint URL is required"}
	}
	if !isAbsoluteURL(c.Endpoint) {
		return &ConfigError{Field: "endpoint", Reason: fmt.Sprintf("must be an absolute URL, got=%q", c.Endpoint)}
	}

	switch c.AuthMode {
	case AuthModeBearer:
		if strings.TrimSpace(c.BearerToken) == "" {
			return &ConfigError{Field: "auth.bearer_token", Reason: "bearer mode requires a token"}
		}
	case AuthModeOAuth:
		missing := []string{}
		if c.OAuth.ClientID == "" {
			missing = append(missing, "client_id")
		}
		if c.OAuth.ClientSecret == "" {
			missing = append(missing, "client_secret")
		}
		if c.OAuth.TenantID == "" {
			missing = append(missing, "tenant_id")
		}
		if c.OAuth.Scope == "" {
			missing = append(missing, "scope")
		}
		if len(missing) > 0 {
			return &ConfigError{Field: "auth", Reason: "oauth mode requires " + strings.Join(missing, ", ")}
		}
	default:
		return &ConfigError{Field: "auth.mode", Reason: fmt.Sprintf("unknown auth mode %q", c.AuthMode)}
	}

	if c.TimeoutSeconds <= 0 {
		return &ConfigError{Field: "timeout_seconds", Reason: "request timeout must be positive"}
	}

	switch c.ErrorPolicy {
	case ErrorPolicyStrict, ErrorPolicyTolerant:
	default:
		return &ConfigError{Field: "error_policy", Reason: fmt.Sprintf("must be %q or %q, got=%q", ErrorPolicyStrict, ErrorPolicyTolerant, c.ErrorPolicy)}
	}

	return nil
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
