package models

import (
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const (
	DefaultContactName = "PEDRO"
	DefaultContactNote = "Support contact in case no on-call collaborator answers."
)

// SupportContact holds the per-field defaults merged under the caller's
// supportContact object.
type SupportContact struct {
	Name     string
	Whatsapp string
	Phone    string
	Email    string
	Note     string
}

func DefaultSupportContact() SupportContact {
	return SupportContact{
		Name: DefaultContactName,
		Note: DefaultContactNote,
	}
}

func (c SupportContact) object() Object {
	return Object{
		FieldContactName:     c.Name,
		FieldContactWhatsapp: c.Whatsapp,
		FieldContactPhone:    c.Phone,
		FieldContactEmail:    c.Email,
		FieldContactNote:     c.Note,
	}
}

// Normalizer coerces arbitrary decoded JSON into the canonical Record shape.
// It never fails and never mutates its input.
type Normalizer struct {
	contact SupportContact
	now     func() time.Time
}

func NewNormalizer(contact SupportContact, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{contact: contact, now: now}
}

var defaultNormalizer = NewNormalizer(DefaultSupportContact(), nil)

// Normalize uses the built-in support contact and the wall clock.
func Normalize(input any) Record {
	return defaultNormalizer.Normalize(input)
}

// Default returns a fresh default record for the current month.
func (n *Normalizer) Default() Record {
	return n.defaultAt(n.now())
}

func (n *Normalizer) defaultAt(now time.Time) Record {
	month, year := int(now.Month()), now.Year()
	return Record{
		FieldCollaborators: []any{},
		FieldSchedule: Object{
			FieldMonth:       month,
			FieldYear:        year,
			FieldMonthYear:   monthYear(month, year),
			FieldDayOwnerIds: Object{},
			FieldDayTimes:    Object{},
		},
		FieldSupportContact: n.contact.object(),
		FieldUpdatedAt:      nil,
	}
}

func (n *Normalizer) Normalize(input any) Record {
	in, _ := asObject(input)
	now := n.now()
	base := n.defaultAt(now)

	out := make(Record, len(base)+len(in))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range in {
		out[k] = cloneValue(v)
	}

	if _, ok := out[FieldCollaborators].([]any); !ok {
		out[FieldCollaborators] = []any{}
	}

	schedule := mergeObject(base.Schedule(), in[FieldSchedule])
	if _, ok := asObject(schedule[FieldDayOwnerIds]); !ok {
		schedule[FieldDayOwnerIds] = Object{}
	}
	if _, ok := asObject(schedule[FieldDayTimes]); !ok {
		schedule[FieldDayTimes] = Object{}
	}
	if !truthy(schedule[FieldMonth]) {
		schedule[FieldMonth] = int(now.Month())
	}
	if !truthy(schedule[FieldYear]) {
		schedule[FieldYear] = now.Year()
	}
	if !truthy(schedule[FieldMonthYear]) {
		schedule[FieldMonthYear] = formatScalar(schedule[FieldMonth]) + "/" + formatScalar(schedule[FieldYear])
	}
	out[FieldSchedule] = schedule

	out[FieldSupportContact] = mergeObject(base.SupportContact(), in[FieldSupportContact])

	if _, ok := out[FieldUpdatedAt]; !ok {
		out[FieldUpdatedAt] = nil
	}
	return out
}

// mergeObject overlays the entries of overlay, when it is an object, on a
// copy of base. One level only.
func mergeObject(base Object, overlay any) Object {
	src, _ := asObject(overlay)
	out := make(Object, len(base)+len(src))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range src {
		out[k] = cloneValue(v)
	}
	return out
}

func monthYear(month, year int) string {
	return strconv.Itoa(month) + "/" + strconv.Itoa(year)
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
