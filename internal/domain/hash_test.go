package domain

import "testing"

func TestComputeContentHashIgnoresCaseAndWhitespace(t *testing.T) {
	t.Parallel()

	base := ComputeContentHash("Senior Go Developer\nRemote, from 300000 RUB")

	variants := []string{
		"senior go developer remote, from 300000 rub",
		"  SENIOR   GO\tDEVELOPER\r\n\nREMOTE,FROM 300000 RUB  ",
		"Senior Go Developer\x00 Remote, from 300000 RUB",
		"S e n i o r Go Developer Remote , from 300000RUB",
	}

	for _, v := range variants {
		if got := ComputeContentHash(v); got != base {
			t.Fatalf("expected %q to hash to %s, got %s", v, base, got)
		}
	}
}

func TestComputeContentHashDeterministic(t *testing.T) {
	t.Parallel()

	text := "Backend Python developer, hybrid"
	first := ComputeContentHash(text)
	for i := 0; i < 5; i++ {
		if got := ComputeContentHash(text); got != first {
			t.Fatalf("hash changed between calls: %s != %s", got, first)
		}
	}

	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}

	if ComputeContentHash("Backend Python developer, onsite") == first {
		t.Fatalf("expected different text to produce a different hash")
	}
}
