// Package crm provides the outbound CRM integration: enum display mapping
// tables, date conversion, the normalized contact payload, per-deployment
// custom-field id configuration, and the upsert HTTP client.
package crm

import (
	"regexp"
	"strings"
)

// Table is an immutable mapping from internal enum codes to the exact
// picklist texts the CRM expects. The CRM matches on display text, not
// codes.
type Table map[string]string

// Lookup translates an internal code to its CRM display text. Unknown
// codes pass through unchanged so a new option on the landing never drops
// data.
func (t Table) Lookup(code string) string {
	if display, ok := t[code]; ok {
		return display
	}
	return code
}

// SexoTable maps the landing's sex codes to CRM picklist texts.
var SexoTable = Table{
	"masculino": "Masculino",
	"femenino":  "Femenino",
}

// ProfesionTable maps profession codes to CRM picklist texts.
// The landing sends "otros" but the CRM option is "Otro".
var ProfesionTable = Table{
	"medico":          "Médico/a",
	"enfermero":       "Enfermero/a",
	"cuidador":        "Cuidador/a",
	"kinesiologo":     "Kinesiólogo/a",
	"psicomotricista": "Psicomotricista",
	"psicologo":       "Psicólogo/a",
	"fonoaudiologo":   "Fonoaudiólogo/a",
	"paramedico":      "Paramédico/a",
	"otros":           "Otro",
}

// MonotributoTable maps the tax-registration flag.
var MonotributoTable = Table{
	"si": "Sí",
	"no": "No",
}

// RubroTable maps the commercial form's industry codes.
var RubroTable = Table{
	"salud":      "Salud",
	"educacion":  "Educación",
	"comercio":   "Comercio",
	"tecnologia": "Tecnología",
	"servicios":  "Servicios",
	"otros":      "Otro",
}

// TipoConsultaTable maps the commercial inquiry type codes.
var TipoConsultaTable = Table{
	"presupuesto": "Presupuesto",
	"alianza":     "Alianza comercial",
	"soporte":     "Soporte",
	"otros":       "Otro",
}

// PresupuestoTable maps budget-range codes.
var PresupuestoTable = Table{
	"hasta_500k":  "Hasta $500.000",
	"500k_2m":     "$500.000 a $2.000.000",
	"mas_2m":      "Más de $2.000.000",
	"sin_definir": "Sin definir",
}

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	plainDateRe = regexp.MustCompile(`^(\d{2})[/-](\d{2})[/-](\d{4})$`)
)

// ToISODate converts "dd/mm/yyyy" or "dd-mm-yyyy" to "yyyy-mm-dd".
// Already-ISO input is returned as is. Unparseable or out-of-range input
// (day 1-31, month 1-12, year >= 1900) is returned unchanged rather than
// failing: a malformed date must never abort a submission.
func ToISODate(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return value
	}
	if isoDateRe.MatchString(v) {
		return v
	}

	m := plainDateRe.FindStringSubmatch(v)
	if m == nil {
		return v
	}

	dd, mm, yyyy := m[1], m[2], m[3]
	d := int(dd[0]-'0')*10 + int(dd[1]-'0')
	mo := int(mm[0]-'0')*10 + int(mm[1]-'0')
	y := 0
	for _, r := range yyyy {
		y = y*10 + int(r-'0')
	}
	if d < 1 || d > 31 || mo < 1 || mo > 12 || y < 1900 {
		return v
	}

	return yyyy + "-" + mm + "-" + dd
}
