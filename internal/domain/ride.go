package domain

import "time"

// RideStatus represents the current status of a ride. Statuses only move
// forward through the ordered sequence below; CANCELLED is reserved as a
// terminal state and is never set by the simulation.
type RideStatus string

const (
	RideStatusRequested      RideStatus = "REQUESTED"
	RideStatusDriverArriving RideStatus = "DRIVER_ARRIVING"
	RideStatusTripStarted    RideStatus = "TRIP_STARTED"
	RideStatusDriving        RideStatus = "DRIVING"
	RideStatusCompleted      RideStatus = "COMPLETED"
	RideStatusCancelled      RideStatus = "CANCELLED"
)

// Location is a coordinate pair shared through the messaging channel.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ride represents a booked ride. The ID is assigned by the store on
// creation; status mutations go through the ride simulation only.
type Ride struct {
	ID              int64
	UserID          string
	Pickup          Location
	Destination     Location
	DriverName      string
	CarDetails      string
	Status          RideStatus
	Fare            float64 // two-decimal precision
	DurationMinutes int
	CreatedAt       time.Time
}
