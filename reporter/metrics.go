package reporter

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"gqlcheck/toolkit"
)

// Metrics is the session accumulator: counters, response-time samples and
// failure artifacts, created at session start and read at session end. It is
// passed through the runner explicitly; there is no ambient global state.
type Metrics struct {
	reportDir    string
	artifactsDir string

	start      time.Time
	results    []toolkit.CaseResult
	errorKinds map[string]int
}

func NewMetrics(reportDir string) *Metrics {
	return &Metrics{reportDir: reportDir}
}

func (m *Metrics) OnSessionStart(total int) {
	m.start = time.Now()
	m.results = nil
	m.errorKinds = make(map[string]int)
	m.artifactsDir = filepath.Join(m.reportDir, "error_artifacts")
	if err := os.MkdirAll(m.artifactsDir, 0o755); err != nil {
		log.Printf("reporter.metrics: artifact dir create failed dir=%s error=%v", m.artifactsDir, err)
		m.artifactsDir = ""
	}
	log.Printf("reporter.metrics: session start total=%d artifacts=%s", total, m.artifactsDir)
}

func (m *Metrics) OnTestStart(name string) {
	log.Printf("reporter.metrics: case start name=%s", name)
}

func (m *Metrics) OnTestEnd(res toolkit.CaseResult) {
	if !res.Passed {
		m.errorKinds[res.Failure]++
		if path, err := m.writeArtifact(res); err != nil {
			log.Printf("reporter.metrics: artifact write failed name=%s error=%v", res.Name, err)
		} else {
			res.Artifact = path
		}
	}
	m.results = append(m.results, res)
	log.Printf("reporter.metrics: case done name=%s passed=%t status=%d latency_ms=%d failure=%s",
		res.Name, res.Passed, res.Status, res.LatencyMS, res.Failure)
}

// OnSessionEnd prints the terminal summary.
func (m *Metrics) OnSessionEnd(sum toolkit.Summary) {
	fmt.Println(strings.Repeat("=", 20) + " GraphQL API Test Summary " + strings.Repeat("=", 20))
	fmt.Printf("Total Execution Time: %.2fs\n", float64(sum.TotalMS)/1000)
	fmt.Printf("Average Response Time: %.2fs\n", float64(sum.AvgLatencyMS)/1000)
	fmt.Printf("Total Queries: %d\n", sum.Total)
	fmt.Printf("Failed Queries: %d\n", sum.Failed)
	fmt.Printf("Schema Violations: %d\n", sum.SchemaViolations)
	if len(sum.ErrorKinds) > 0 {
		fmt.Println("\nError Types:")
		kinds := make([]string, 0, len(sum.ErrorKinds))
		for k := range sum.ErrorKinds {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("  %s: %d\n", k, sum.ErrorKinds[k])
		}
	}
}

// Report assembles the final report from everything accumulated so far.
func (m *Metrics) Report() toolkit.Report {
	rep := toolkit.Report{Results: m.results}
	rep.Summary.Total = len(m.results)
	rep.Summary.TotalMS = time.Since(m.start).Milliseconds()

	var latencySum int64
	for _, r := range m.results {
		latencySum += r.LatencyMS
		if r.Passed {
			rep.Summary.Passed++
		} else {
			rep.Summary.Failed++
		}
		if r.Failure == FailureSchemaViolation {
			rep.Summary.SchemaViolations++
		}
	}
	if len(m.results) > 0 {
		rep.Summary.AvgLatencyMS = latencySum / int64(len(m.results))
	}
	if len(m.errorKinds) > 0 {
		rep.Summary.ErrorKinds = m.errorKinds
	}
	return rep
}

type artifact struct {
	TestName  string `json:"test_name"`
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (m *Metrics) writeArtifact(res toolkit.CaseResult) (string, error) {
	if m.artifactsDir == "" {
		return "", nil
	}
	a := artifact{
		TestName:  res.Name,
		ErrorKind: res.Failure,
		Message:   res.Why,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal artifact: %w", err)
	}
	base := strings.TrimSuffix(res.Name, filepath.Ext(res.Name))
	path := filepath.Join(m.artifactsDir, fmt.Sprintf("error_%s_%s.json", base, uuid.NewString()))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write artifact %q: %w", path, err)
	}
	return path, nil
}
