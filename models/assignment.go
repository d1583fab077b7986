package models

// Assignment binds a report to its nearest responder. A zero value means
// no responder was available.
type Assignment struct {
	Ngo        *Ngo
	DistanceKm float64
}

func (a Assignment) IsAssigned() bool {
	return a.Ngo != nil
}
