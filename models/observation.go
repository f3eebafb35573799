package models

import "time"

// Observation is one day of data for the filtered region.
type Observation struct {
	Date   time.Time
	Cases  int
	Deaths int
}

// RowRejection records a source row that was dropped during ingestion.
type RowRejection struct {
	Line   int
	Reason string
}

// RecordStore holds the ordered observations of a single region, in file order.
// Rows are only added as complete observations, so the date, case and death
// sequences always have the same length.
type RecordStore struct {
	Region       string
	Observations []Observation
	Rejected     []RowRejection
}

func (s *RecordStore) Len() int {
	return len(s.Observations)
}

func (s *RecordStore) Empty() bool {
	return len(s.Observations) == 0
}

// Dates returns the observation dates in file order.
func (s *RecordStore) Dates() []time.Time {
	out := make([]time.Time, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Date
	}
	return out
}

// Cases returns the daily new-case counts in file order.
func (s *RecordStore) Cases() []int {
	out := make([]int, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Cases
	}
	return out
}

// Deaths returns the daily new-death counts in file order.
func (s *RecordStore) Deaths() []int {
	out := make([]int, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Deaths
	}
	return out
}
