// Package airports normalizes IATA-style location codes before they reach the
// provider. Some codes that travelers use are rail stations with IATA
// identifiers; those are mapped onto the nearest serviced airport.
package airports

import "strings"

// railStationAliases maps non-airport codes to the airport that serves the
// same city. Aliasing is single-level: no target appears as a source.
var railStationAliases = map[string]string{
	"ZYR": "BRU", // Brussels-Midi rail station
	"XPG": "PAR", // Paris Gare du Nord
	"QKL": "CGN", // Cologne Hauptbahnhof
	"ZWS": "STR", // Stuttgart Hauptbahnhof
	"XIR": "MRS", // Marseille Saint-Charles
	"QJZ": "NTE", // Nantes rail station
	"ZLN": "LMS", // Le Mans rail station
}

// Resolve upper-cases the code and maps known rail-station aliases to their
// serviced airport. Unknown codes pass through unchanged: the flight search
// is the authoritative validator and simply finds nothing for bad codes.
func Resolve(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if airport, ok := railStationAliases[normalized]; ok {
		return airport
	}
	return normalized
}

// IsValidAirport reports whether a code can be used directly as an airport.
// Alias sources are rail stations, not airports. Anything else is accepted,
// including unrecognized codes, since downstream retrieval returns zero
// flights for codes the provider does not serve.
func IsValidAirport(code string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return false
	}
	_, isAlias := railStationAliases[normalized]
	return !isAlias
}
