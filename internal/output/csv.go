package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/avidan-h/meetfly/internal/domain/models"
)

var csvHeader = []string{
	"route",
	"destination",
	"total_price",
	"price_person1",
	"price_person2",
	"currency",
	"person1_origin",
	"person1_outbound_departure",
	"person1_outbound_arrival",
	"person1_outbound_duration",
	"person1_outbound_stops",
	"person1_return_departure",
	"person1_return_arrival",
	"person1_return_duration",
	"person1_airlines",
	"person2_origin",
	"person2_outbound_departure",
	"person2_outbound_arrival",
	"person2_outbound_duration",
	"person2_outbound_stops",
	"person2_return_departure",
	"person2_return_arrival",
	"person2_return_duration",
	"person2_airlines",
}

// WriteCSV streams the ranked matches as CSV rows, one row per pairing.
func WriteCSV(w io.Writer, matches []models.MatchCandidate) error {
	const op = "output.WriteCSV"

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("%s: write header: %w", op, err)
	}

	for _, m := range matches {
		p1 := summarizeOffer(m.Person1Offer)
		p2 := summarizeOffer(m.Person2Offer)

		currency := p1.Currency
		if currency == "" {
			currency = p2.Currency
		}

		row := []string{
			fmt.Sprintf("%s & %s -> %s", p1.Origin, p2.Origin, m.Destination),
			m.Destination,
			fmt.Sprintf("%.2f", m.TotalPrice),
			fmt.Sprintf("%.2f", m.Person1Price),
			fmt.Sprintf("%.2f", m.Person2Price),
			currency,
			p1.Origin,
			p1.Outbound.Departure,
			p1.Outbound.Arrival,
			p1.Outbound.Duration,
			fmt.Sprintf("%d", p1.Outbound.Stops),
			p1.Return.Departure,
			p1.Return.Arrival,
			p1.Return.Duration,
			p1.Airlines,
			p2.Origin,
			p2.Outbound.Departure,
			p2.Outbound.Arrival,
			p2.Outbound.Duration,
			fmt.Sprintf("%d", p2.Outbound.Stops),
			p2.Return.Departure,
			p2.Return.Arrival,
			p2.Return.Duration,
			p2.Airlines,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("%s: write row: %w", op, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%s: flush: %w", op, err)
	}
	return nil
}

// ExportCSV writes the matches to a file, replacing any previous export.
func ExportCSV(path string, matches []models.MatchCandidate) error {
	const op = "output.ExportCSV"

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := WriteCSV(f, matches); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
