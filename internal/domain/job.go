package domain

import "time"

// JobStatus represents the current status of a transport job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusAccepted   JobStatus = "accepted"
	JobStatusInProgress JobStatus = "in-progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// jobTransitions lists the statuses reachable from each status.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:    {JobStatusAccepted},
	JobStatusAccepted:   {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress: {JobStatusCompleted, JobStatusCancelled},
}

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusAccepted, JobStatusInProgress,
		JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// CanTransitionTo reports whether a job in status s may move to next.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Location is an address with its coordinates.
type Location struct {
	Address     string
	Coordinates Coordinates
}

// LivestockDetails describes the animals being moved.
type LivestockDetails struct {
	Type                string
	Quantity            int
	Weight              float64 // Total weight in kg, 0 when unknown
	SpecialRequirements string
}

// Job represents a livestock transport request.
type Job struct {
	ID                string
	CustomerID        string
	CustomerName      string
	Status            JobStatus
	PickupLocation    Location
	DropoffLocation   Location
	PickupTime        time.Time
	EstimatedDistance float64 // Kilometers
	EstimatedDuration int     // Minutes
	Price             float64
	Livestock         LivestockDetails
	TransporterID     string
	AcceptedAt        time.Time
	CompletedAt       time.Time
	CreatedAt         time.Time
}
