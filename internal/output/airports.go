// Package output renders a finished search to the console and to CSV/HTML
// files. Renderers consume the orchestrator's result as-is.
package output

import "strings"

// cityNames maps common IATA city and airport codes to display names.
var cityNames = map[string]string{
	"TLV": "Tel Aviv",
	"ALC": "Alicante",
	"BCN": "Barcelona",
	"LON": "London",
	"PAR": "Paris",
	"MAD": "Madrid",
	"ROM": "Rome",
	"FCO": "Rome",
	"AMS": "Amsterdam",
	"BER": "Berlin",
	"VIE": "Vienna",
	"PRG": "Prague",
	"ATH": "Athens",
	"LIS": "Lisbon",
	"DUB": "Dublin",
	"CPH": "Copenhagen",
	"STO": "Stockholm",
	"OSL": "Oslo",
	"MUC": "Munich",
	"AGP": "Malaga",
	"SEV": "Seville",
	"ZUR": "Zurich",
	"BRU": "Brussels",
	"WAR": "Warsaw",
	"BUD": "Budapest",
	"ZAG": "Zagreb",
	"HEL": "Helsinki",
	"REK": "Reykjavik",
	"OPO": "Porto",
}

// DisplayName renders a code as "City (CODE)" when the city is known,
// otherwise the bare code.
func DisplayName(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if name, ok := cityNames[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}
