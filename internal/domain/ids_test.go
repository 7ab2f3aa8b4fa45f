package domain

import "testing"

func TestParseIDs(t *testing.T) {
	t.Parallel()

	id := NewVacancyID()
	parsed, err := ParseVacancyID(" " + id.String() + " ")
	if err != nil {
		t.Fatalf("ParseVacancyID: %v", err)
	}
	if parsed != id {
		t.Fatalf("got %s, want %s", parsed, id)
	}
	if _, err := ParseVacancyID("not-a-uuid"); err == nil {
		t.Fatal("expected error for malformed vacancy id")
	}

	cid, err := ParseCandidateID("42")
	if err != nil || cid != 42 {
		t.Fatalf("ParseCandidateID(42) = %d, %v", cid, err)
	}
	if _, err := ParseCandidateID("abc"); err == nil {
		t.Fatal("expected error for non-numeric candidate id")
	}

	if !(MirrorRef{}).IsZero() {
		t.Fatal("empty mirror ref must be zero")
	}
	if got := (MirrorRef{Channel: "mirror", MessageID: "1-0"}).String(); got != "mirror/1-0" {
		t.Fatalf("MirrorRef.String() = %q", got)
	}
}
