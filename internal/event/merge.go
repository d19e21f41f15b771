package event

// Field keys used by the extraction layers. Every detail parser produces a
// Fields patch keyed by these names.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldLocation    = "location"
	FieldPrice       = "price"
	FieldCapacity    = "capacity"
	FieldDateText    = "date_text"
	FieldStart       = "start_datetime"
	FieldEnd         = "end_datetime"
)

// Fields is a patch of extracted values for a single event.
type Fields map[string]string

// MergeFillEmpty merges patch into base without clobbering: keys missing from
// base are adopted; keys whose base value normalizes to empty take the patch
// value when it is non-empty; everything else keeps the base value. Applying
// patches in decreasing-reliability order therefore guarantees the most
// reliable non-empty value survives.
func MergeFillEmpty(base, patch Fields) Fields {
	out := make(Fields, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		cur, ok := out[k]
		if !ok {
			out[k] = v
			continue
		}
		if NormalizeWhitespace(cur) == "" && NormalizeWhitespace(v) != "" {
			out[k] = v
		}
	}
	return out
}

// Reduce applies patches to base in order via MergeFillEmpty.
func Reduce(base Fields, patches ...Fields) Fields {
	out := base
	for _, p := range patches {
		out = MergeFillEmpty(out, p)
	}
	return out
}

// Fields returns the event's extractable fields as a patch map.
func (e *Event) Fields() Fields {
	return Fields{
		FieldTitle:       e.Title,
		FieldDescription: e.Description,
		FieldLocation:    e.Location,
		FieldPrice:       e.Price,
		FieldCapacity:    e.Capacity,
		FieldDateText:    e.DateText,
		FieldStart:       e.Start,
		FieldEnd:         e.End,
	}
}

// ApplyFields writes the patch map back onto the event, normalizing
// whitespace on every value.
func (e *Event) ApplyFields(f Fields) {
	e.Title = NormalizeWhitespace(f[FieldTitle])
	e.Description = NormalizeWhitespace(f[FieldDescription])
	e.Location = NormalizeWhitespace(f[FieldLocation])
	e.Price = NormalizeWhitespace(f[FieldPrice])
	e.Capacity = NormalizeWhitespace(f[FieldCapacity])
	e.DateText = NormalizeWhitespace(f[FieldDateText])
	e.Start = NormalizeWhitespace(f[FieldStart])
	e.End = NormalizeWhitespace(f[FieldEnd])
}
