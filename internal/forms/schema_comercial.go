package forms

import "landing_leads_backend/internal/crm"

// SchemaConsultaComercial is the declared name of the 3-step commercial
// inquiry form.
const SchemaConsultaComercial = "consulta-comercial"

func newConsultaComercial() *Schema {
	return &Schema{
		Name: SchemaConsultaComercial,
		Tags: []string{"Landing Consulta Comercial"},
		Steps: []Step{
			{
				Title: "Datos de Contacto",
				Fields: []Field{
					{Name: "first_name", Kind: KindText, Rules: []Rule{
						Required("El nombre es obligatorio"),
					}},
					{Name: "last_name", Kind: KindText, Rules: []Rule{
						Required("El apellido es obligatorio"),
					}},
					{Name: "email", Kind: KindText, Rules: []Rule{
						Required("El email es obligatorio"),
						Pattern(emailRe, "Ingrese un email válido"),
					}},
					{Name: "telefono", Kind: KindText, Rules: []Rule{
						Required("El teléfono es obligatorio"),
						Pattern(phoneRe, "Ingrese un número válido de 10 dígitos"),
					}},
				},
			},
			{
				Title: "Datos de la Empresa",
				Fields: []Field{
					{Name: "empresa", Kind: KindText, Rules: []Rule{
						Required("El nombre de la empresa es obligatorio"),
					}},
					{Name: "rubro", Kind: KindEnum, Mapping: crm.RubroTable, Rules: []Rule{
						Required("Seleccione un rubro"),
					}},
					{Name: "rubro_otro", Kind: KindText, Rules: []Rule{
						RequiredIf("rubro", "otros", "Especifique el rubro"),
					}},
					{Name: "cargo", Kind: KindText},
				},
			},
			{
				Title: "Consulta",
				Fields: []Field{
					{Name: "tipo_consulta", Kind: KindEnum, Mapping: crm.TipoConsultaTable, Rules: []Rule{
						Required("Seleccione el tipo de consulta"),
					}},
					{Name: "presupuesto", Kind: KindEnum, Mapping: crm.PresupuestoTable},
					{Name: "mensaje", Kind: KindText, FreeText: true, Rules: []Rule{
						Required("El mensaje es obligatorio"),
						MinLen(20, "El mensaje debe tener al menos 20 caracteres"),
					}},
					{Name: "adjuntos", Kind: KindFiles},
				},
			},
		},
	}
}
