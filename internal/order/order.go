// Package order models the section ordering and visibility configuration of
// a page: a unique ordered list of section ids plus a visibility map, with
// the compact persisted forms (comma-joined CSV, JSON object) used by the
// spreadsheet-backed settings records.
package order

import (
	"encoding/json"
	"strings"
)

// Mandatory sections are always present and always rendered regardless of
// the persisted order or visibility flags.
var Mandatory = []string{"hero", "apply"}

// CanonicalLP is the default section order of a job landing page.
var CanonicalLP = []string{"hero", "points", "jobs", "details", "faq", "apply"}

// CanonicalRecruit is the default section order of a company recruit page.
// Custom sections are appended after the explicit order, see AppendMissing.
var CanonicalRecruit = []string{"hero", "jobs", "apply"}

// IsMandatory reports whether the id is a mandatory section.
func IsMandatory(id string) bool {
	for _, m := range Mandatory {
		if id == m {
			return true
		}
	}
	return false
}

// Serialize joins an order into its persisted comma-separated form.
func Serialize(ids []string) string {
	return strings.Join(ids, ",")
}

// Deserialize parses a persisted comma-separated order. Blank entries and
// duplicates are dropped, missing mandatory sections are reinserted (hero at
// the front, apply at the end) and a fully empty or corrupt value falls back
// to a copy of the canonical order.
func Deserialize(csv string, canonical []string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, part := range strings.Split(csv, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return append([]string(nil), canonical...)
	}
	if !seen["hero"] {
		ids = append([]string{"hero"}, ids...)
	}
	if !seen["apply"] {
		ids = append(ids, "apply")
	}
	return ids
}

// AppendMissing appends ids not already referenced by the order, preserving
// their own relative order. Used to surface custom sections added after the
// order was persisted.
func AppendMissing(ids []string, extra []string) []string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	out := append([]string(nil), ids...)
	for _, id := range extra {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// ParseVisibility parses the persisted JSON visibility map. Corrupt input
// falls back to an empty map (everything visible), never an error.
func ParseVisibility(raw string) map[string]bool {
	vis := make(map[string]bool)
	if strings.TrimSpace(raw) == "" {
		return vis
	}
	if err := json.Unmarshal([]byte(raw), &vis); err != nil {
		return make(map[string]bool)
	}
	return vis
}

// SerializeVisibility renders the visibility map as a JSON object string.
// Keys are emitted sorted, so serialization is deterministic.
func SerializeVisibility(vis map[string]bool) string {
	if len(vis) == 0 {
		return "{}"
	}
	data, err := json.Marshal(vis)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Visible reports whether a section should be rendered. Mandatory sections
// ignore the hidden flag; a missing key means visible.
func Visible(vis map[string]bool, id string) bool {
	if IsMandatory(id) {
		return true
	}
	v, ok := vis[id]
	if !ok {
		return true
	}
	return v
}
