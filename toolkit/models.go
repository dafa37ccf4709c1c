package toolkit

// -- Config

const (
	AuthModeBearer = "bearer"
	AuthModeOAuth  = "oauth"

	ErrorPolicyStrict   = "strict"
	ErrorPolicyTolerant = "tolerant"
)

type Config struct {
	Endpoint string `json:"endpoint"`

	AuthMode    string      `json:"auth_mode"` // "bearer" or "oauth"
	BearerToken string      `json:"-"`
	OAuth       OAuthConfig `json:"-"`

	QueryDir  string `json:"query_dir"`
	SchemaDir string `json:"schema_dir"`
	ReportDir string `json:"report_dir"`

	TimeoutSeconds     int    `json:"timeout_seconds"`
	ErrorPolicy        string `json:"error_policy"` // "strict" or "tolerant"
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	Scope        string
}

// -- Report

type Report struct { // !!!! \\\
	// Final session report structure. This is the main exporting struct.
	Summary   Summary      `json:"summary"`
	Persisted bool         `json:"persisted"`
	Results   []CaseResult `json:"results"`
}

type Summary struct {
	Total            int   `json:"total"`
	Passed           int   `json:"passed"`
	Failed           int   `json:"failed"`
	SchemaViolations int   `json:"schema_violations"`
	TotalMS          int64 `json:"total_ms"`
	AvgLatencyMS     int64 `json:"avg_latency_ms"`

	ErrorKinds map[string]int `json:"error_kinds,omitempty"`
}

type CaseResult struct {
	Name    string `json:"name"` // query file name
	Query   string `json:"query,omitempty"`
	Passed  bool   `json:"passed"`
	Failure string `json:"failure_type,omitempty"`
	Why     string `json:"why_failed,omitempty"`
	Error   string `json:"error,omitempty"`

	Status           int    `json:"status"`
	SchemaName       string `json:"schema,omitempty"`
	SchemaValidation string `json:"schema_validation,omitempty"` // "pass", "fail" or "n/a"

	LatencyMS int64  `json:"latency_ms"`
	Artifact  string `json:"artifact,omitempty"`
}
