package airports

import "testing"

func TestResolve_RailStationAlias(t *testing.T) {
	if got := Resolve("zyr"); got != "BRU" {
		t.Fatalf("unexpected resolution: got %s want BRU", got)
	}
}

func TestResolve_UnknownCodePassesThrough(t *testing.T) {
	if got := Resolve(" tlv "); got != "TLV" {
		t.Fatalf("unexpected resolution: got %s want TLV", got)
	}
	if got := Resolve("XXX"); got != "XXX" {
		t.Fatalf("unknown code should pass through, got %s", got)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	for source := range railStationAliases {
		once := Resolve(source)
		twice := Resolve(once)
		if once != twice {
			t.Fatalf("resolution not idempotent for %s: %s != %s", source, once, twice)
		}
	}
}

func TestResolve_NoChainedAliases(t *testing.T) {
	for source, target := range railStationAliases {
		if _, ok := railStationAliases[target]; ok {
			t.Fatalf("alias target %s (from %s) is itself an alias source", target, source)
		}
	}
}

func TestIsValidAirport(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"BRU", true},
		{"ZYR", false},
		{"xpg", false},
		{"TLV", true},
		{"ZZZ", true}, // fail-open for unrecognized codes
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidAirport(tc.code); got != tc.want {
			t.Fatalf("IsValidAirport(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
