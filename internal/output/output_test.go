package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/avidan-h/meetfly/internal/domain/models"
)

func sampleMatch(destination string, price1, price2 float64) models.MatchCandidate {
	offer := func(origin string, price float64) models.FlightOffer {
		return models.FlightOffer{
			Price:        price,
			Currency:     "EUR",
			SearchOrigin: origin,
			Itineraries: []models.Itinerary{
				{Duration: "PT4H", Segments: []models.Segment{{
					CarrierCode: "LH",
					Departure:   models.FlightPoint{Airport: origin, At: "2026-09-10T08:00:00"},
					Arrival:     models.FlightPoint{Airport: destination, At: "2026-09-10T12:00:00"},
				}}},
				{Duration: "PT4H30M", Segments: []models.Segment{{
					CarrierCode: "AF",
					Departure:   models.FlightPoint{Airport: destination, At: "2026-09-17T18:00:00"},
					Arrival:     models.FlightPoint{Airport: origin, At: "2026-09-17T22:30:00"},
				}}},
			},
		}
	}
	return models.MatchCandidate{
		Destination:  destination,
		Person1Offer: offer("TLV", price1),
		Person2Offer: offer("MUC", price2),
		Person1Price: price1,
		Person2Price: price2,
		TotalPrice:   price1 + price2,
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("par"); got != "Paris (PAR)" {
		t.Fatalf("DisplayName(par) = %q", got)
	}
	if got := DisplayName("XXX"); got != "XXX" {
		t.Fatalf("unknown codes must pass through, got %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	matches := []models.MatchCandidate{sampleMatch("PAR", 200, 220)}
	if err := WriteCSV(&buf, matches); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}
	row := records[1]
	if row[0] != "TLV & MUC -> PAR" {
		t.Fatalf("route column = %q", row[0])
	}
	if row[2] != "420.00" {
		t.Fatalf("total price column = %q", row[2])
	}
	if len(row) != len(csvHeader) {
		t.Fatalf("row width %d does not match header width %d", len(row), len(csvHeader))
	}
}

func TestWriteHTML_TopDestinationsCap(t *testing.T) {
	result := models.MeetingResult{
		Matches: []models.MatchCandidate{
			sampleMatch("MAD", 180, 190),
			sampleMatch("PAR", 200, 220),
			sampleMatch("MAD", 210, 230),
			sampleMatch("LIS", 300, 310),
		},
		DestinationsChecked:     5,
		DestinationsWithMatches: 3,
	}

	var buf bytes.Buffer
	if err := WriteHTML(&buf, result, 2); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, "Madrid (MAD)") || !strings.Contains(html, "Paris (PAR)") {
		t.Fatalf("top destinations missing from report")
	}
	if strings.Contains(html, "Lisbon") {
		t.Fatalf("destinations beyond the cap must be dropped")
	}
	if !strings.Contains(html, "google.com/travel/flights") {
		t.Fatalf("booking links missing from report")
	}
}

func TestWriteHTML_LaterMatchJoinsExistingGroup(t *testing.T) {
	result := models.MeetingResult{
		Matches: []models.MatchCandidate{
			sampleMatch("MAD", 180, 190),
			sampleMatch("PAR", 200, 220),
			sampleMatch("MAD", 280, 310),
		},
	}

	var buf bytes.Buffer
	if err := WriteHTML(&buf, result, 1); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	html := buf.String()

	// The second MAD pairing ranks below the PAR one but MAD is already an
	// open group, so it still lands in the report.
	if !strings.Contains(html, "590.00") {
		t.Fatalf("later pairing for an included destination must be kept")
	}
	if strings.Contains(html, "Paris") {
		t.Fatalf("cap of one destination must exclude the second destination")
	}
}

func TestConsoleRenderer_Summary(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(&buf)

	r.Render(models.MeetingResult{
		Matches:                 []models.MatchCandidate{sampleMatch("PAR", 200, 220)},
		DestinationsChecked:     3,
		DestinationsWithMatches: 1,
		DuplicatesRemoved:       2,
	})

	out := buf.String()
	for _, want := range []string{"Paris (PAR)", "420.00", "Airlines: AF, LH", "Destinations checked: 3, with matches: 1, duplicates removed: 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleRenderer_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleRenderer(&buf).Render(models.MeetingResult{DestinationsChecked: 4})

	out := buf.String()
	if !strings.Contains(out, "No matching flights found") {
		t.Fatalf("missing empty-result message:\n%s", out)
	}
	if !strings.Contains(out, "Destinations checked: 4") {
		t.Fatalf("summary counts must print even without matches:\n%s", out)
	}
}
