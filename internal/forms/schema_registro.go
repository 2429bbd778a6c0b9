package forms

import (
	"regexp"

	"landing_leads_backend/internal/crm"
)

// Shared format patterns. Phone is the Argentine 10-digit local format the
// landing collects; CUIT/CUIL is the dashed tax id.
var (
	phoneRe = regexp.MustCompile(`^\d{10}$`)
	cuitRe  = regexp.MustCompile(`^\d{2}-\d{8}-\d{1}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// SchemaRegistroProfesional is the declared name of the 4-step
// professional-registration form.
const SchemaRegistroProfesional = "registro-profesional"

func newRegistroProfesional() *Schema {
	return &Schema{
		Name: SchemaRegistroProfesional,
		Tags: []string{"Landing Registro Profesional"},
		Steps: []Step{
			{
				Title: "Datos Personales",
				Fields: []Field{
					{Name: "first_name", Kind: KindText, Rules: []Rule{
						Required("El nombre es obligatorio"),
					}},
					{Name: "last_name", Kind: KindText, Rules: []Rule{
						Required("El apellido es obligatorio"),
					}},
					{Name: "sexo", Kind: KindEnum, Mapping: crm.SexoTable, Rules: []Rule{
						Required("Seleccione una opción"),
					}},
					{Name: "fecha_nacimiento", Kind: KindDate, Rules: []Rule{
						Required("La fecha de nacimiento es obligatoria"),
					}},
				},
			},
			{
				Title: "Información Profesional y Fiscal",
				Fields: []Field{
					{Name: "profesion", Kind: KindEnum, Mapping: crm.ProfesionTable, Rules: []Rule{
						Required("Seleccione una profesión"),
					}},
					{Name: "profesion_otra", Kind: KindText, Rules: []Rule{
						RequiredIf("profesion", "otros", "Especifique su profesión"),
					}},
					{Name: "matricula", Kind: KindText, Numeric: true},
					{Name: "cuit_cuil", Kind: KindText, Rules: []Rule{
						Required("El CUIT/CUIL es obligatorio"),
						Pattern(cuitRe, "Formato inválido. Use: XX-XXXXXXXX-X"),
					}},
					{Name: "monotributo", Kind: KindEnum, Mapping: crm.MonotributoTable, Rules: []Rule{
						Required("Seleccione una opción"),
					}},
				},
			},
			{
				Title: "Contacto y Domicilio",
				Fields: []Field{
					{Name: "telefono", Kind: KindText, Rules: []Rule{
						Required("El teléfono es obligatorio"),
						Pattern(phoneRe, "Ingrese un número válido de 10 dígitos"),
					}},
					{Name: "email", Kind: KindText, Rules: []Rule{
						Required("El email es obligatorio"),
						Pattern(emailRe, "Ingrese un email válido"),
					}},
					{Name: "localidad", Kind: KindText, Rules: []Rule{
						Required("La localidad es obligatoria"),
					}},
					{Name: "domicilio", Kind: KindText, Rules: []Rule{
						Required("El domicilio es obligatorio"),
					}},
					{Name: "barrio", Kind: KindText, Rules: []Rule{
						Required("El barrio es obligatorio"),
					}},
					{Name: "aclaraciones_domicilio", Kind: KindText, FreeText: true},
				},
			},
			{
				Title: "Documentación y Observaciones",
				Fields: []Field{
					{Name: "cv_upload", Kind: KindFiles, Rules: []Rule{
						FilesRequired("Debe adjuntar al menos un archivo"),
					}},
					{Name: "observaciones", Kind: KindText, FreeText: true},
				},
			},
		},
	}
}
