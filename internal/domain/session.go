package domain

import "time"

// Flow names a multi-step conversational sub-protocol.
type Flow string

const (
	FlowNone         Flow = ""
	FlowRegistration Flow = "registration"
	FlowRideRequest  Flow = "ride_request"
)

// Step is the current state within a flow.
type Step string

const (
	StepAskName             Step = "ask_name"
	StepAskRole             Step = "ask_role"
	StepAskEmergencyContact Step = "ask_emergency_contact"

	StepAwaitingPickup      Step = "awaiting_pickup"
	StepAwaitingDestination Step = "awaiting_destination"
)

// Session is the ephemeral per-identity conversation state. It is created
// on the first event for an identity and its flow fields are cleared when a
// flow completes. Scratch fields are only meaningful for the active flow.
type Session struct {
	Phone string `json:"phone"`
	Flow  Flow   `json:"flow"`
	Step  Step   `json:"step"`

	// Registration scratch.
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role,omitempty"`

	// Ride-request scratch.
	Pickup      *Location `json:"pickup,omitempty"`
	Destination *Location `json:"destination,omitempty"`
	DriverName  string    `json:"driver_name,omitempty"`
	CarDetails  string    `json:"car_details,omitempty"`
	Fare        float64   `json:"fare,omitempty"`
	ETAMinutes  int       `json:"eta_minutes,omitempty"`
	RideID      int64     `json:"ride_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// ResetFlow clears the active flow and all flow scratch fields, leaving the
// session idle for the next command.
func (s *Session) ResetFlow() {
	s.Flow = FlowNone
	s.Step = ""
	s.FullName = ""
	s.Role = ""
	s.Pickup = nil
	s.Destination = nil
	s.DriverName = ""
	s.CarDetails = ""
	s.Fare = 0
	s.ETAMinutes = 0
	s.RideID = 0
}
