package types

import "testing"

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{"low": SevLow, "MEDIUM": SevMed, " med ": SevMed, "High": SevHigh}
	for in, want := range cases {
		got, err := ParseSeverity(in)
		if err != nil {
			t.Fatalf("ParseSeverity(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseSeverity(%q)=%q want %q", in, got, want)
		}
	}
	if _, err := ParseSeverity("critical"); err == nil {
		t.Fatal("expected error for unknown severity")
	}
}

func TestSeverityRank(t *testing.T) {
	if !(SevHigh.Rank() > SevMed.Rank() && SevMed.Rank() > SevLow.Rank()) {
		t.Fatal("severity ranks out of order")
	}
	if Severity("bogus").Rank() != 0 {
		t.Fatal("unknown severity should rank 0")
	}
}

func TestFindingValidate(t *testing.T) {
	ok := Finding{Line: 3, Category: CatSecurity, Rule: "r", Message: "m", Severity: SevHigh}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid finding rejected: %v", err)
	}
	bad := []Finding{
		{Line: 1, Category: "style", Message: "m", Severity: SevLow},
		{Line: 1, Category: CatQuality, Message: "m", Severity: "critical"},
		{Line: 1, Category: CatQuality, Message: "  ", Severity: SevLow},
		{Line: -1, Category: CatQuality, Message: "m", Severity: SevLow},
	}
	for i, f := range bad {
		if err := f.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestFingerprint_Stable(t *testing.T) {
	a := Finding{Path: "a.py", Line: 2, Category: CatSecurity, Rule: "bare-except", Message: "m", Severity: SevMed}
	b := a
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("fingerprint should be deterministic")
	}
	b.Line = 3
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("fingerprint should change with line")
	}
}
