package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/avidan-h/meetfly/internal/domain/models"
	"github.com/fatih/color"
)

// ConsoleRenderer prints the ranked matches in a human-readable layout.
type ConsoleRenderer struct {
	w io.Writer
}

func NewConsoleRenderer(w io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{w: w}
}

func (r *ConsoleRenderer) Render(result models.MeetingResult) {
	divider := strings.Repeat("=", 100)

	if len(result.Matches) == 0 {
		color.New(color.FgRed, color.Bold).Fprintln(r.w, "No matching flights found.")
		r.renderCounts(result)
		return
	}

	color.New(color.FgGreen, color.Bold).Fprintf(r.w, "Found %d matching flight option(s)\n", len(result.Matches))
	fmt.Fprintln(r.w, divider)

	for i, m := range result.Matches {
		p1 := summarizeOffer(m.Person1Offer)
		p2 := summarizeOffer(m.Person2Offer)

		currency := p1.Currency
		if currency == "" {
			currency = p2.Currency
		}

		color.New(color.FgCyan, color.Bold).Fprintf(r.w, "\nOption %d: %s\n", i+1, DisplayName(m.Destination))
		color.New(color.FgYellow).Fprintf(r.w, "Total price: %.2f %s (person 1: %.2f, person 2: %.2f)\n",
			m.TotalPrice, currency, m.Person1Price, m.Person2Price)
		fmt.Fprintln(r.w, strings.Repeat("-", 100))

		r.renderTraveler(1, p1, m.Destination)
		r.renderTraveler(2, p2, m.Destination)
		fmt.Fprintln(r.w, divider)
	}

	r.renderCounts(result)
}

func (r *ConsoleRenderer) renderTraveler(n int, s offerSummary, destination string) {
	fmt.Fprintf(r.w, "\nPerson %d (%s -> %s):\n", n, DisplayName(s.Origin), DisplayName(destination))
	r.renderLeg("Outbound", s.Outbound)
	if s.HasReturn {
		r.renderLeg("Return  ", s.Return)
	}
	fmt.Fprintf(r.w, "   Airlines: %s\n", orNA(s.Airlines))
	fmt.Fprintf(r.w, "   Price: %.2f %s\n", s.Price, s.Currency)
}

func (r *ConsoleRenderer) renderLeg(label string, leg legSummary) {
	fmt.Fprintf(r.w, "   %s: %s -> %s (%s, %d stops)\n",
		label, orNA(leg.Departure), orNA(leg.Arrival), orNA(leg.Duration), leg.Stops)
}

func (r *ConsoleRenderer) renderCounts(result models.MeetingResult) {
	fmt.Fprintf(r.w, "\nDestinations checked: %d, with matches: %d, duplicates removed: %d\n",
		result.DestinationsChecked, result.DestinationsWithMatches, result.DuplicatesRemoved)
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
