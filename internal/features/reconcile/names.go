package reconcile

import "strings"

// ParsedName is the result of splitting a free-text display name
type ParsedName struct {
	First  string
	Middle string
	Last   string
	Suffix string
}

var nameSalutations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "miss": true, "dr": true,
	"rev": true, "fr": true, "prof": true, "sir": true, "hon": true,
}

var nameSuffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
	"md": true, "phd": true, "dds": true, "esq": true, "cpa": true,
}

// ParseHumanName splits a free-text name into first/middle/last/suffix.
// Handles "Last, First" ordering, leading salutations and trailing
// generational/professional suffixes. A single remaining token lands in
// First; callers that need a non-empty last name apply their own fallback.
func ParseHumanName(raw string) ParsedName {
	var parsed ParsedName

	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return parsed
	}

	// "Last, First Middle" form
	if idx := strings.Index(name, ","); idx >= 0 {
		last := strings.TrimSpace(name[:idx])
		rest := strings.TrimSpace(name[idx+1:])
		name = strings.TrimSpace(rest + " " + last)
	}

	tokens := strings.Fields(name)

	// Leading salutation
	if len(tokens) > 1 && nameSalutations[normalizeNameToken(tokens[0])] {
		tokens = tokens[1:]
	}

	// Trailing suffix
	if len(tokens) > 1 && nameSuffixes[normalizeNameToken(tokens[len(tokens)-1])] {
		parsed.Suffix = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}

	switch len(tokens) {
	case 0:
	case 1:
		parsed.First = tokens[0]
	case 2:
		parsed.First = tokens[0]
		parsed.Last = tokens[1]
	default:
		parsed.First = tokens[0]
		parsed.Middle = strings.Join(tokens[1:len(tokens)-1], " ")
		parsed.Last = tokens[len(tokens)-1]
	}

	return parsed
}

func normalizeNameToken(tok string) string {
	return strings.ToLower(strings.TrimRight(tok, "."))
}
