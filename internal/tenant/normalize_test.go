package tenant

import "testing"

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Stanford.EDU",
		"  iitb.ac.in ",
		"alumni.stanford.edu",
		"g.ucla.edu",
		"example.com",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeCollapsesAliases(t *testing.T) {
	if got := Normalize("alumni.stanford.edu"); got != "stanford.edu" {
		t.Errorf("expected stanford.edu, got %q", got)
	}
	if Normalize("students.iitb.ac.in") != Normalize("alumni.iitb.ac.in") {
		t.Error("historically-equivalent domains should normalize identically")
	}
}

func TestNormalizeLowercasesAndTrims(t *testing.T) {
	if got := Normalize("  UCLA.edu.  "); got != "ucla.edu" {
		t.Errorf("expected ucla.edu, got %q", got)
	}
}

func TestFromEmail(t *testing.T) {
	cases := map[string]string{
		"jane@Stanford.EDU":        "stanford.edu",
		"x@alumni.stanford.edu":    "stanford.edu",
		"no-at-sign":               "",
		"trailing@":                "",
		"two@ats@terpmail.umd.edu": "umd.edu",
	}
	for in, want := range cases {
		if got := FromEmail(in); got != want {
			t.Errorf("FromEmail(%q) = %q, want %q", in, got, want)
		}
	}
}
