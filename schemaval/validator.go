package schemaval

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// NotFoundError means the schema file itself is missing. A validation
// mismatch is never an error; it is a normal, reportable outcome.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schema not found: %s", e.Name)
}

// Validator loads JSON Schema documents by name from a schema directory and
// caches the compiled schema for the lifetime of the instance.
type Validator struct {
	dir   string
	cache map[string]*gojsonschema.Schema
	reads int
}

func NewValidator(dir string) *Validator {
	return &Validator{dir: dir, cache: make(map[string]*gojsonschema.Schema)}
}

// Has reports whether a schema file exists for the name, without compiling it.
func (v *Validator) Has(name string) bool {
	if _, ok := v.cache[name]; ok {
		return true
	}
	_, err := os.Stat(filepath.Join(v.dir, name+".json"))
	return err == nil
}

// Validate checks body against the named schema. ok=false with a reason is
// the mismatch outcome; err is reserved for a missing or broken schema file.
func (v *Validator) Validate(body any, name string) (bool, string, error) {
	schema, err := v.load(name)
	if err != nil {
		return false, "", err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(body))
	if err != nil {
		return false, "", fmt.Errorf("validate against %q: %w", name, err)
	}
	if result.Valid() {
		return true, "", nil
	}

	reasons := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		reasons = append(reasons, desc.String())
	}
	return false, strings.Join(reasons, "; "), nil
}

// Reads returns how many times a schema file was read from disk. The cache
// contract: a second Validate for the same name never re-reads.
func (v *Validator) Reads() int { return v.reads }

func (v *Validator) load(name string) (*gojsonschema.Schema, error) {
	if s, ok := v.cache[name]; ok {
		return s, nil
	}

	path := filepath.Join(v.dir, name+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("read schema %q: %w", path, err)
	}
	v.reads++

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	v.cache[name] = schema
	log.Printf("schemaval.load: compiled schema=%s path=%s", name, path)
	return schema, nil
}
