// Package leads implements the capture pipeline: normalize a raw form
// record into a CRM payload and upsert it through the CRM client.
package leads

import (
	"regexp"
	"strconv"

	"landing_leads_backend/internal/crm"
	"landing_leads_backend/internal/forms"
	"landing_leads_backend/platform/phone"
	"landing_leads_backend/platform/sanitize"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Normalizer turns a validated record into a CRM payload under a form
// schema. Field identifiers come from the injected mapping; fields the
// mapping does not know are dropped from customFields while the
// top-level contact attributes still flow.
type Normalizer struct {
	fieldIDs crm.FieldIDs
}

func NewNormalizer(fieldIDs crm.FieldIDs) *Normalizer {
	return &Normalizer{fieldIDs: fieldIDs}
}

// Payload builds the upsert payload in schema order. Per field it
// applies enum display mapping, date normalization, numeric coercion and
// conditional gating, skipping blank values entirely.
func (n *Normalizer) Payload(schema *forms.Schema, rec *forms.Record) crm.Payload {
	payload := crm.Payload{Tags: append([]string(nil), schema.Tags...)}
	seen := make(map[string]bool)

	for _, field := range schema.FieldsInOrder() {
		if field.Kind == forms.KindFiles {
			n.appendFiles(&payload, field, rec, seen)
			continue
		}
		value, ok := sanitize.Clean(rec.Value(field.Name))
		if !ok {
			continue
		}
		if field.FreeText {
			if value, ok = sanitize.Clean(sanitize.Text(value)); !ok {
				continue
			}
		}
		if govern, equals, conditional := field.Condition(); conditional {
			selected, _ := sanitize.Clean(rec.Value(govern))
			if selected != equals {
				continue
			}
		}

		switch field.Name {
		case "first_name":
			payload.FirstName = value
			continue
		case "last_name":
			payload.LastName = value
			continue
		case "email":
			payload.Email = value
			continue
		case "telefono":
			payload.Phone = phone.NormalizeE164(value)
			continue
		}

		n.appendCustom(&payload, field, value, seen)
	}
	return payload
}

func (n *Normalizer) appendCustom(payload *crm.Payload, field forms.Field, value string, seen map[string]bool) {
	id, ok := n.fieldIDs.IDFor(field.Name)
	if !ok || seen[id] {
		return
	}
	seen[id] = true

	var out interface{}
	switch {
	case field.Kind == forms.KindEnum && field.Mapping != nil:
		out = crm.Table(field.Mapping).Lookup(value)
	case field.Kind == forms.KindDate:
		out = crm.ToISODate(value)
	case field.Numeric && digitsOnly.MatchString(value):
		num, err := strconv.Atoi(value)
		if err != nil {
			out = value
		} else {
			out = num
		}
	default:
		out = value
	}
	payload.CustomFields = append(payload.CustomFields, crm.CustomField{ID: id, Value: out})
}

// appendFiles maps an upload field to a custom field holding the stored
// object URLs, one per file, joined into a single value when the CRM
// field expects one. Refs without a URL (storage disabled, upload not
// forwarded) are skipped like any other absent value.
func (n *Normalizer) appendFiles(payload *crm.Payload, field forms.Field, rec *forms.Record, seen map[string]bool) {
	refs := rec.FilesFor(field.Name)
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		if u, ok := sanitize.Clean(ref.URL); ok {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return
	}
	id, ok := n.fieldIDs.IDFor(field.Name)
	if !ok || seen[id] {
		return
	}
	seen[id] = true

	payload.CustomFields = append(payload.CustomFields, crm.CustomField{ID: id, Value: joinURLs(urls)})
}

func joinURLs(urls []string) string {
	out := urls[0]
	for _, u := range urls[1:] {
		out += "\n" + u
	}
	return out
}
