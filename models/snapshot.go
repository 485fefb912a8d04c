package models

import "time"

// Snapshot is the full database state: the four collections the persistence
// backends load and save as one unit.
type Snapshot struct {
	Customers     []Customer     `json:"customers"`
	Bicycles      []Bicycle      `json:"bicycles"`
	JobOffers     []JobOffer     `json:"jobOffers"`
	RepairHistory []RepairRecord `json:"repairHistory"`
}

// Export is a snapshot stamped with the time it was taken, the shape the
// JSON export/import endpoints and backup files use.
type Export struct {
	Snapshot
	ExportedAt time.Time `json:"exportedAt"`
}

// Copy returns a snapshot whose slices are independent of the receiver's.
func (s Snapshot) Copy() Snapshot {
	out := Snapshot{
		Customers:     make([]Customer, len(s.Customers)),
		Bicycles:      make([]Bicycle, len(s.Bicycles)),
		JobOffers:     make([]JobOffer, len(s.JobOffers)),
		RepairHistory: make([]RepairRecord, len(s.RepairHistory)),
	}
	copy(out.Customers, s.Customers)
	copy(out.Bicycles, s.Bicycles)
	for i, job := range s.JobOffers {
		job.Repairs = job.Repairs.Copy()
		out.JobOffers[i] = job
	}
	for i, rec := range s.RepairHistory {
		rec.Repairs = rec.Repairs.Copy()
		out.RepairHistory[i] = rec
	}
	return out
}
