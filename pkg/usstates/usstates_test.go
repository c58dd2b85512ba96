package usstates

import "testing"

func TestAbbreviation(t *testing.T) {
	tests := map[string]string{
		"California":           "CA",
		"  new   york ":        "NY",
		"DISTRICT OF COLUMBIA": "DC",
		"Washington D.C.":      "DC",
		"tx":                   "TX",
		"CA":                   "CA",
		"Puerto Rico":          "PR",
		"U.S. Virgin Islands":  "VI",
		"Atlantis":             "",
		"":                     "",
		"XX":                   "",
	}

	for in, want := range tests {
		if got := Abbreviation(in); got != want {
			t.Errorf("Abbreviation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAbbreviationCoversAllStates(t *testing.T) {
	if len(codes) != 53 {
		t.Fatalf("expected 50 states plus DC, PR and VI, got %d codes", len(codes))
	}
}

func TestFromZip(t *testing.T) {
	tests := map[string]string{
		"90210":      "CA",
		"10001":      "NY",
		"00501":      "NY",
		"00901":      "PR",
		"00725":      "PR",
		"00802":      "VI",
		"00100":      "",
		"71501":      "",
		"96201":      "",
		"02108":      "MA",
		"05501":      "MA",
		"05401":      "VT",
		"73301":      "TX",
		"73102":      "OK",
		"88510":      "TX",
		"60601-1234": "IL",
		"99501":      "AK",
		"96801":      "HI",
		"09001":      "",
		"12":         "",
		"abcde":      "",
	}

	for zip, want := range tests {
		if got := FromZip(zip); got != want {
			t.Errorf("FromZip(%q) = %q, want %q", zip, got, want)
		}
	}
}
