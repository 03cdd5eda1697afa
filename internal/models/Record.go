package models

import json "github.com/goccy/go-json"

// Object is a decoded JSON object.
type Object = map[string]any

// Record is the single persisted document. It stays a dynamic JSON object
// so caller-defined extension fields survive normalization and round trips.
type Record map[string]any

const (
	FieldCollaborators  = "collaborators"
	FieldSchedule       = "schedule"
	FieldSupportContact = "supportContact"
	FieldUpdatedAt      = "updatedAt"
	FieldWarning        = "warning"
)

const (
	FieldMonth       = "month"
	FieldYear        = "year"
	FieldMonthYear   = "monthYear"
	FieldDayOwnerIds = "dayOwnerIds"
	FieldDayTimes    = "dayTimes"
)

const (
	FieldContactName     = "name"
	FieldContactWhatsapp = "whatsapp"
	FieldContactPhone    = "phone"
	FieldContactEmail    = "email"
	FieldContactNote     = "note"
)

// CorruptFileWarning is attached to records served in place of an unreadable file.
const CorruptFileWarning = "Record file is invalid or unreadable; serving a blank record."

func (r Record) Collaborators() []any {
	v, _ := r[FieldCollaborators].([]any)
	return v
}

func (r Record) Schedule() Object {
	v, _ := asObject(r[FieldSchedule])
	return v
}

func (r Record) SupportContact() Object {
	v, _ := asObject(r[FieldSupportContact])
	return v
}

// UpdatedAt returns the write timestamp; ok is false while it is still null.
func (r Record) UpdatedAt() (string, bool) {
	v, ok := r[FieldUpdatedAt].(string)
	return v, ok
}

func (r Record) Warning() (string, bool) {
	v, ok := r[FieldWarning].(string)
	return v, ok
}

// Clone returns a deep copy; nested objects and arrays are not shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func asObject(v any) (Object, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	case Record:
		return map[string]any(o), true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	case Record:
		return map[string]any(t.Clone())
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}

// truthy mirrors JSON-ish truthiness: null, false, zero, "" and empty
// containers are false, everything else is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case Record:
		return len(t) > 0
	default:
		return true
	}
}
