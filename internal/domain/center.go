package domain

// A named place that can respond to a help request.
// Centers are loaded once from the catalog and never mutated afterwards.
type EmergencyCenter struct {
	ID       int
	Name     string
	Location Coordinates
}
