package forms

// registry holds every schema the backend serves, keyed by declared name.
// Schemas are built once at init; they are read-only afterwards.
var registry = map[string]*Schema{
	SchemaRegistroProfesional: newRegistroProfesional(),
	SchemaConsultaComercial:   newConsultaComercial(),
}

// Lookup returns the schema registered under the given name.
func Lookup(name string) (*Schema, bool) {
	s, ok := registry[name]
	return s, ok
}

// Default returns the professional-registration schema, which backs the
// original single-shot submission endpoint.
func Default() *Schema {
	return registry[SchemaRegistroProfesional]
}

// Names lists the registered schema names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
