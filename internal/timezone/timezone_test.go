package timezone

import "testing"

func TestLocationFallsBack(t *testing.T) {
	if IsValid("") || IsValid("Mars/Olympus") {
		t.Fatal("invalid zones accepted")
	}
	if Location("Mars/Olympus") == nil {
		t.Fatal("expected fallback location")
	}
}
