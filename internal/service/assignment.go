package service

import (
	"math"
	"math/rand"
	"sync"
)

// Assignment is the outcome of selecting a driver for a new ride.
type Assignment struct {
	DriverName string
	CarDetails string
	Fare       float64 // two-decimal precision
	ETAMinutes int
}

// Assigner selects a driver, fare and ETA for a new ride.
// This interface allows tests to supply deterministic assignments.
type Assigner interface {
	Assign() Assignment
}

// driverPool is the fixed stand-in pool; there is no real dispatch.
var driverPool = []struct {
	name string
	car  string
}{
	{"Alice", "Toyota Prius - XYZ 1234"},
	{"Bob", "Honda Civic - ABC 5678"},
	{"Charlie", "Ford Focus - DEF 9012"},
}

const (
	minFare = 10.0
	maxFare = 50.0
	minETA  = 5
	maxETA  = 15
)

// RandomAssigner picks uniformly from the driver pool with a fare in
// [10.00, 50.00] and an ETA in [5, 15] minutes.
type RandomAssigner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAssigner creates a RandomAssigner from the given seed.
func NewRandomAssigner(seed int64) *RandomAssigner {
	return &RandomAssigner{rng: rand.New(rand.NewSource(seed))}
}

// Assign selects one driver at random.
func (a *RandomAssigner) Assign() Assignment {
	a.mu.Lock()
	defer a.mu.Unlock()

	driver := driverPool[a.rng.Intn(len(driverPool))]
	fare := math.Round((minFare+a.rng.Float64()*(maxFare-minFare))*100) / 100
	eta := minETA + a.rng.Intn(maxETA-minETA+1)

	return Assignment{
		DriverName: driver.name,
		CarDetails: driver.car,
		Fare:       fare,
		ETAMinutes: eta,
	}
}

var _ Assigner = (*RandomAssigner)(nil)
