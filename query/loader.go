package query

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// NotFoundError means the named query file does not exist in the query
// directory.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("query file not found: %s", e.Name)
}

// Loader reads GraphQL query documents from a directory of .graphql files.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load returns the trimmed text of the named query file.
func (l *Loader) Load(name string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Name: name}
		}
		return "", fmt.Errorf("read query %q: %w", name, err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// List returns the .graphql file names in the query directory, sorted.
// A missing directory is an empty suite, not an error.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("query.list: directory missing dir=%s", l.dir)
			return nil, nil
		}
		return nil, fmt.Errorf("read query dir %q: %w", l.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".graphql") {
			continue
		}
		names = append(names, e.Name())
	}
	log.Printf("query.list: dir=%s files=%d", l.dir, len(names))
	return names, nil
}
