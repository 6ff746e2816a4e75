package output

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"

	"github.com/avidan-h/meetfly/internal/domain/models"
)

// htmlMatch is one pairing prepared for the template.
type htmlMatch struct {
	Rank        int
	TotalPrice  float64
	Currency    string
	Person1     offerSummary
	Person2     offerSummary
	Person1Link string
	Person2Link string
}

// htmlDestination groups a destination's pairings, cheapest first.
type htmlDestination struct {
	Code      string
	Name      string
	BestPrice float64
	Matches   []htmlMatch
}

type htmlPage struct {
	Destinations            []htmlDestination
	TotalMatches            int
	DestinationsChecked     int
	DestinationsWithMatches int
	DuplicatesRemoved       int
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Meeting flight matches</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.15em; margin-top: 2em; border-bottom: 2px solid #388e3c; padding-bottom: 0.2em; }
table { border-collapse: collapse; width: 100%; margin-top: 0.5em; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; font-size: 0.9em; }
th { background: #f0f0f0; }
.total { font-weight: bold; color: #388e3c; }
.summary { color: #666; margin-top: 2em; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Meeting flight matches</h1>
{{- if not .Destinations }}
<p>No matching flights found.</p>
{{- end }}
{{- range .Destinations }}
<h2>{{ .Name }} &mdash; from {{ printf "%.2f" .BestPrice }}</h2>
<table>
<tr>
  <th>#</th><th>Total</th>
  <th>Person 1</th><th>Outbound</th><th>Return</th><th>Book</th>
  <th>Person 2</th><th>Outbound</th><th>Return</th><th>Book</th>
</tr>
{{- range .Matches }}
<tr>
  <td>{{ .Rank }}</td>
  <td class="total">{{ printf "%.2f" .TotalPrice }} {{ .Currency }}</td>
  <td>{{ .Person1.Origin }} ({{ printf "%.2f" .Person1.Price }})</td>
  <td>{{ .Person1.Outbound.Departure }} &rarr; {{ .Person1.Outbound.Arrival }}</td>
  <td>{{ if .Person1.HasReturn }}{{ .Person1.Return.Departure }} &rarr; {{ .Person1.Return.Arrival }}{{ else }}&mdash;{{ end }}</td>
  <td><a href="{{ .Person1Link }}">flights</a></td>
  <td>{{ .Person2.Origin }} ({{ printf "%.2f" .Person2.Price }})</td>
  <td>{{ .Person2.Outbound.Departure }} &rarr; {{ .Person2.Outbound.Arrival }}</td>
  <td>{{ if .Person2.HasReturn }}{{ .Person2.Return.Departure }} &rarr; {{ .Person2.Return.Arrival }}{{ else }}&mdash;{{ end }}</td>
  <td><a href="{{ .Person2Link }}">flights</a></td>
</tr>
{{- end }}
</table>
{{- end }}
<p class="summary">
{{ .TotalMatches }} pairings across {{ .DestinationsWithMatches }} of {{ .DestinationsChecked }} destinations checked;
{{ .DuplicatesRemoved }} duplicates removed.
</p>
</body>
</html>
`))

// WriteHTML renders a grouped report for the cheapest topDestinations
// destinations. topDestinations <= 0 includes all of them.
func WriteHTML(w io.Writer, result models.MeetingResult, topDestinations int) error {
	const op = "output.WriteHTML"

	page := htmlPage{
		TotalMatches:            len(result.Matches),
		DestinationsChecked:     result.DestinationsChecked,
		DestinationsWithMatches: result.DestinationsWithMatches,
		DuplicatesRemoved:       result.DuplicatesRemoved,
	}

	// Matches arrive ranked by total price, so the first appearance of each
	// destination fixes both the group order and its best price.
	index := map[string]int{}
	for _, m := range result.Matches {
		i, ok := index[m.Destination]
		if !ok {
			if topDestinations > 0 && len(page.Destinations) >= topDestinations {
				continue
			}
			page.Destinations = append(page.Destinations, htmlDestination{
				Code:      m.Destination,
				Name:      DisplayName(m.Destination),
				BestPrice: m.TotalPrice,
			})
			i = len(page.Destinations) - 1
			index[m.Destination] = i
		}

		p1 := summarizeOffer(m.Person1Offer)
		p2 := summarizeOffer(m.Person2Offer)
		currency := p1.Currency
		if currency == "" {
			currency = p2.Currency
		}
		page.Destinations[i].Matches = append(page.Destinations[i].Matches, htmlMatch{
			Rank:        len(page.Destinations[i].Matches) + 1,
			TotalPrice:  m.TotalPrice,
			Currency:    currency,
			Person1:     p1,
			Person2:     p2,
			Person1Link: bookingLink(p1, m.Destination),
			Person2Link: bookingLink(p2, m.Destination),
		})
	}

	if err := htmlTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ExportHTML writes the report to a file, replacing any previous export.
func ExportHTML(path string, result models.MeetingResult, topDestinations int) error {
	const op = "output.ExportHTML"

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := WriteHTML(f, result, topDestinations); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// bookingLink builds a Google Flights search for one traveler's route.
func bookingLink(s offerSummary, destination string) string {
	query := fmt.Sprintf("flights from %s to %s on %s", s.Origin, destination, travelDate(s.Outbound.Departure))
	if s.HasReturn {
		query += " returning " + travelDate(s.Return.Departure)
	}
	return "https://www.google.com/travel/flights?q=" + url.QueryEscape(query)
}
