package reporter

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"gqlcheck/toolkit"
)

// Persist writes report.json and report.html into the report directory and
// marks the report persisted.
func Persist(rep toolkit.Report, dir string) (toolkit.Report, error) {
	rep.Persisted = false

	jsonPath, err := filepath.Abs(filepath.Join(dir, "report.json"))
	if err != nil {
		log.Printf("reporter.persist: failed resolve report path error=%v", err)
		return rep, err
	}
	if err := writeJSON(jsonPath, rep); err != nil {
		log.Printf("reporter.persist: failed write report path=%s error=%v", jsonPath, err)
		return rep, fmt.Errorf("persist report json: %w", err)
	}

	htmlPath := filepath.Join(dir, "report.html")
	if err := WriteHTML(htmlPath, rep); err != nil {
		log.Printf("reporter.persist: failed write html path=%s error=%v", htmlPath, err)
		return rep, fmt.Errorf("persist report html: %w", err)
	}

	rep.Persisted = true
	log.Printf("reporter.persist: report persisted json=%s html=%s", jsonPath, htmlPath)
	return rep, nil
}

func writeJSON(path string, data any) error {
	log.Printf("reporter.write_json: writing file=%s", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare output directory for %q: %w", path, err)
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json %q: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write json file %q: %w", path, err)
	}
	return nil
}
