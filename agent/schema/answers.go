package schema

import "strings"

// AnswerRecord holds every canonical field for one session. Values start at
// their schema defaults and are only ever mutated through Merge.
type AnswerRecord struct {
	SessionID string         `json:"session_id"`
	Values    map[string]any `json:"values"`
}

// NewAnswerRecord returns a record seeded with every field's default.
func NewAnswerRecord(sessionID string) *AnswerRecord {
	values := make(map[string]any, len(Fields))
	for _, f := range Fields {
		values[f.Name] = f.Default()
	}
	return &AnswerRecord{
		SessionID: sessionID,
		Values:    values,
	}
}

// Merge applies an update map whose keys may be canonical names or dotted
// aliases. Each key resolves independently and overwrites the stored value
// in full (lists are replaced, not appended). Keys the schema does not
// recognize are skipped and returned so callers can log them; they never
// fail the merge.
func (r *AnswerRecord) Merge(updates map[string]any) []string {
	if r == nil || len(updates) == 0 {
		return nil
	}
	r.ensureValues()

	var ignored []string
	for key, value := range updates {
		name, ok := resolveKey(key)
		if !ok {
			ignored = append(ignored, key)
			continue
		}
		r.Values[name] = value
	}
	return ignored
}

// Externalize renders the record as a complete alias-keyed map, filling the
// schema default for any canonical field missing from Values.
func (r *AnswerRecord) Externalize() map[string]any {
	out := make(map[string]any, len(Fields))
	for _, f := range Fields {
		if r != nil && r.Values != nil {
			if v, ok := r.Values[f.Name]; ok {
				out[f.Alias] = v
				continue
			}
		}
		out[f.Alias] = f.Default()
	}
	return out
}

// Clone deep-copies the record; list values get their own backing arrays.
func (r *AnswerRecord) Clone() *AnswerRecord {
	if r == nil {
		return nil
	}
	values := make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		if list, ok := v.([]any); ok {
			values[k] = append([]any(nil), list...)
			continue
		}
		values[k] = v
	}
	return &AnswerRecord{
		SessionID: r.SessionID,
		Values:    values,
	}
}

func (r *AnswerRecord) ensureValues() {
	if r.Values == nil {
		r.Values = make(map[string]any, len(Fields))
	}
}

// resolveKey auto-detects whether key is a canonical name or an alias.
// Canonical names win; anything else, dotted or not, falls through to the
// alias table.
func resolveKey(key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	if _, ok := Lookup(key); ok {
		return key, true
	}
	return ResolveAlias(key)
}
