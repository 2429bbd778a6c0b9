// Package forms provides the declarative step schemas and the pure
// per-step validator for the multi-step landing forms.
package forms

// FileRef is an opaque handle to an uploaded file. Raw bytes never enter
// the record; storage hands back a key and, once stored, a URL the CRM
// can reference.
type FileRef struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Key  string `json:"key,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Record is the composite record accumulated across all steps of one form
// session. Scalar answers are kept as raw strings exactly as entered;
// file fields hold lists of FileRef.
type Record struct {
	Values map[string]string    `json:"values"`
	Files  map[string][]FileRef `json:"files"`
}

// NewRecord creates an empty composite record.
func NewRecord() *Record {
	return &Record{
		Values: make(map[string]string),
		Files:  make(map[string][]FileRef),
	}
}

// Set stores a scalar field value, overwriting any previous value.
func (r *Record) Set(name, value string) {
	if r.Values == nil {
		r.Values = make(map[string]string)
	}
	r.Values[name] = value
}

// Value returns the stored scalar value for a field (empty when unset).
func (r *Record) Value(name string) string {
	return r.Values[name]
}

// AddFile appends a file handle to a file field.
func (r *Record) AddFile(name string, ref FileRef) {
	if r.Files == nil {
		r.Files = make(map[string][]FileRef)
	}
	r.Files[name] = append(r.Files[name], ref)
}

// FilesFor returns the file handles attached to a field.
func (r *Record) FilesFor(name string) []FileRef {
	return r.Files[name]
}
