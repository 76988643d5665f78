package reconcile

import (
	"strings"

	"go-donorsync/internal/crm"
)

// Match ranks. Lower wins; a tier decided by a higher rank is never
// overridden by a lower one.
const (
	rankPlatformID = iota
	rankEmail
	rankPhone
	rankNone
)

// crm email fields considered by the email tier
func contactEmails(c *crm.Contact) []string {
	return []string{c.Email, c.PersonalEmail, c.WorkEmail}
}

// FindBestMatch selects the single best CRM contact for the given hints, or
// reports no match. Candidates retrieved on name similarity alone never
// outrank "no match": a name collision by itself must not merge two donor
// identities.
func FindBestMatch(candidates []crm.Contact, hints MatchHints) (*crm.Contact, bool) {
	hintEmails := make(map[string]bool, len(hints.Emails))
	for _, e := range hints.Emails {
		if n := normalizeEmail(e); n != "" {
			hintEmails[n] = true
		}
	}
	hintPhone := normalizePhone(hints.Phone)

	best := rankNone
	var bestContact *crm.Contact

	for i := range candidates {
		r := rankContact(&candidates[i], hints.PlatformContactID, hintEmails, hintPhone)
		if r < best {
			best = r
			bestContact = &candidates[i]
		}
	}

	if bestContact == nil {
		return nil, false
	}
	return bestContact, true
}

func rankContact(c *crm.Contact, platformID string, hintEmails map[string]bool, hintPhone string) int {
	if platformID != "" && c.PlatformContactID == platformID {
		return rankPlatformID
	}
	for _, e := range contactEmails(c) {
		if n := normalizeEmail(e); n != "" && hintEmails[n] {
			return rankEmail
		}
	}
	if hintPhone != "" && normalizePhone(c.Phone) == hintPhone {
		return rankPhone
	}
	return rankNone
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
