package matching

import (
	"encoding/json"
	"strings"
)

// DefaultLevel is assumed when a sports entry carries no skill level.
const DefaultLevel = "Beginner"

// Preference is one sport a user plays, with a self-reported skill level.
// The canonical stored encoding is a JSON array of these objects.
type Preference struct {
	Sport string `json:"sport"`
	Level string `json:"level"`
}

// ParseSports reads a user's sports field, tolerating every encoding seen in
// production data:
//
//   - JSON array of {"sport": ..., "level": ...} objects (canonical)
//   - JSON array of plain strings
//   - comma-separated names: "Football, Tennis"
//   - names with a trailing level: "Football (Intermediate)"
//
// Unparseable input degrades to nil rather than failing; a missing level
// defaults to DefaultLevel. Duplicate sport names keep the first entry.
func ParseSports(raw string) []Preference {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		return parseJSONSports(raw)
	}

	var prefs []Preference
	for _, part := range strings.Split(raw, ",") {
		if p, ok := parseTextEntry(part); ok {
			prefs = appendPreference(prefs, p)
		}
	}
	return prefs
}

func parseJSONSports(raw string) []Preference {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}

	var prefs []Preference
	for _, entry := range entries {
		var obj Preference
		if err := json.Unmarshal(entry, &obj); err == nil && strings.TrimSpace(obj.Sport) != "" {
			obj.Sport = strings.TrimSpace(obj.Sport)
			if strings.TrimSpace(obj.Level) == "" {
				obj.Level = DefaultLevel
			}
			prefs = appendPreference(prefs, obj)
			continue
		}
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			if p, ok := parseTextEntry(name); ok {
				prefs = appendPreference(prefs, p)
			}
		}
	}
	return prefs
}

// parseTextEntry handles "Football" and "Football (Intermediate)" forms.
func parseTextEntry(s string) (Preference, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Preference{}, false
	}
	p := Preference{Sport: s, Level: DefaultLevel}
	if open := strings.LastIndex(s, "("); open > 0 && strings.HasSuffix(s, ")") {
		if level := strings.TrimSpace(s[open+1 : len(s)-1]); level != "" {
			p.Sport = strings.TrimSpace(s[:open])
			p.Level = level
		}
	}
	if p.Sport == "" {
		return Preference{}, false
	}
	return p, true
}

func appendPreference(prefs []Preference, p Preference) []Preference {
	for _, existing := range prefs {
		if existing.Sport == p.Sport {
			return prefs
		}
	}
	return append(prefs, p)
}

// EncodeSports renders preferences in the canonical JSON encoding.
// Nil/empty input encodes to the empty string.
func EncodeSports(prefs []Preference) string {
	if len(prefs) == 0 {
		return ""
	}
	b, err := json.Marshal(prefs)
	if err != nil {
		return ""
	}
	return string(b)
}
