package settings

import "strings"

// ParseFAQ parses the FAQ micro-format: one "Q:<text>|A:<text>" pair per
// line, or "||"-joined pairs in the legacy single-line form. The full-width
// colon "：" is accepted after the Q/A markers and whitespace around both
// markers is trimmed. A pair missing the A marker is dropped whole.
//
// There is no escaping mechanism: an answer may contain a literal "|" only
// after the A marker. A "|" inside the question text loses the pair. Known
// data-loss risk if the format is ever migrated.
func ParseFAQ(raw string) []QA {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	normalized := strings.ReplaceAll(raw, "||", "\n")
	var out []QA
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rest, ok := cutMarker(line, "Q")
		if !ok {
			continue
		}
		qText, aPart, found := strings.Cut(rest, "|")
		if !found {
			continue
		}
		aText, ok := cutMarker(strings.TrimSpace(aPart), "A")
		if !ok {
			continue
		}
		q := strings.TrimSpace(qText)
		a := strings.TrimSpace(aText)
		if q == "" || a == "" {
			continue
		}
		out = append(out, QA{Question: q, Answer: a})
	}
	return out
}

// cutMarker strips a leading "<marker>:" or "<marker>：" prefix.
func cutMarker(s, marker string) (rest string, ok bool) {
	for _, sep := range []string{marker + ":", marker + "："} {
		if strings.HasPrefix(s, sep) {
			return s[len(sep):], true
		}
	}
	return "", false
}
