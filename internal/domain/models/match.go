package models

// MatchCandidate pairs one offer per traveler for a destination where both
// price ceilings hold and the matching timestamps fall inside the tolerance.
type MatchCandidate struct {
	Destination  string      `json:"destination"`
	Person1Offer FlightOffer `json:"person1Offer"`
	Person2Offer FlightOffer `json:"person2Offer"`
	Person1Price float64     `json:"person1Price"`
	Person2Price float64     `json:"person2Price"`
	TotalPrice   float64     `json:"totalPrice"`
}

// MeetingResult is the orchestrator output: the globally ranked candidate
// list plus the counts the renderers report.
type MeetingResult struct {
	Matches                 []MatchCandidate
	DestinationsChecked     int
	DestinationsWithMatches int
	DuplicatesRemoved       int
}
