package crm

// CustomField is one (external field id, value) pair of the upsert body.
// Value is a string for text/date/picklist slots and a number for numeric
// slots.
type CustomField struct {
	ID    string      `json:"id"`
	Value interface{} `json:"value"`
}

// Payload is the CRM-bound representation of a submitted record: the
// top-level contact attributes plus the ordered custom-field list. It is
// built once per successful submission by the lead normalizer and consumed
// exactly once by the upsert client. No entry is ever blank and no two
// entries share an id.
type Payload struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Tags         []string
	CustomFields []CustomField
}

// DisplayName is the contact name some CRM views rely on: given and family
// name joined, trimmed.
func (p Payload) DisplayName() string {
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	return name
}
