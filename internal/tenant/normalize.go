package tenant

import "strings"

// staticAliases maps historically-distinct email domains onto one canonical
// value per institution. The authoritative mapping lives server-side and may
// grow at runtime (see Guard); this table is the synchronous fallback and can
// lag behind it.
var staticAliases = map[string]string{
	"alumni.stanford.edu":  "stanford.edu",
	"cs.stanford.edu":      "stanford.edu",
	"g.ucla.edu":           "ucla.edu",
	"umail.iu.edu":         "iu.edu",
	"terpmail.umd.edu":     "umd.edu",
	"mail.utoronto.ca":     "utoronto.ca",
	"alumni.iitb.ac.in":    "iitb.ac.in",
	"students.iitb.ac.in":  "iitb.ac.in",
	"vitstudent.ac.in":     "vit.ac.in",
	"smail.iitm.ac.in":     "iitm.ac.in",
}

// Normalize canonicalizes a college email domain: lower-cases, trims, and
// collapses known aliases. It is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimSuffix(d, ".")
	if canonical, ok := staticAliases[d]; ok {
		return canonical
	}
	return d
}

// FromEmail extracts and normalizes the domain part of an email address.
// Returns "" when the address has no domain part.
func FromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return Normalize(email[at+1:])
}
