package crm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldIDs maps internal field names to the opaque custom-field ids the
// CRM assigns per deployment. The ids are tenant-specific configuration,
// not business logic: they are loaded from a YAML document at process
// start, never compiled in.
type FieldIDs map[string]string

// IDFor returns the external id for an internal field name.
func (f FieldIDs) IDFor(name string) (string, bool) {
	id, ok := f[name]
	return id, ok && id != ""
}

type fieldIDsFile struct {
	Fields map[string]string `yaml:"fields"`
}

// LoadFieldIDs reads the field-id mapping document. An empty path returns
// an empty mapping: the contact's top-level attributes still flow, custom
// fields are skipped until the deployment is configured.
func LoadFieldIDs(path string) (FieldIDs, error) {
	if path == "" {
		return FieldIDs{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field ids file: %w", err)
	}

	var doc fieldIDsFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse field ids file %s: %w", path, err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("field ids file %s declares no fields", path)
	}

	return FieldIDs(doc.Fields), nil
}
