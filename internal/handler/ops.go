package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
	"github.com/georgeey123/ride-hailing-bot/internal/repository"
)

// OpsHandler exposes read-only views of users and rides for operators. The
// bot itself only talks over the webhook.
type OpsHandler struct {
	users repository.UserRepository
	rides repository.RideRepository
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(users repository.UserRepository, rides repository.RideRepository) *OpsHandler {
	return &OpsHandler{users: users, rides: rides}
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID               string `json:"id"`
	Phone            string `json:"phone"`
	FullName         string `json:"full_name"`
	Role             string `json:"role"`
	EmergencyContact string `json:"emergency_contact"`
}

// RideResponse is the HTTP response for ride data.
type RideResponse struct {
	ID              int64   `json:"id"`
	UserID          string  `json:"user_id"`
	PickupLat       float64 `json:"pickup_lat"`
	PickupLng       float64 `json:"pickup_lng"`
	DestinationLat  float64 `json:"destination_lat"`
	DestinationLng  float64 `json:"destination_lng"`
	DriverName      string  `json:"driver_name"`
	CarDetails      string  `json:"car_details"`
	Status          string  `json:"status"`
	Fare            float64 `json:"fare"`
	DurationMinutes int     `json:"duration_minutes"`
	CreatedAt       string  `json:"created_at"`
}

// GetUser handles GET /v1/users/:phone
func (h *OpsHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// GetRide handles GET /v1/rides/:id
func (h *OpsHandler) GetRide(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid ride id"})
		return
	}

	ride, err := h.rides.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRideResponse(ride))
}

// ListUserRides handles GET /v1/users/:phone/rides
func (h *OpsHandler) ListUserRides(c *gin.Context) {
	user, err := h.users.GetByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}

	rides, err := h.rides.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		response = append(response, toRideResponse(ride))
	}
	c.JSON(http.StatusOK, response)
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Phone:            user.Phone,
		FullName:         user.FullName,
		Role:             string(user.Role),
		EmergencyContact: user.EmergencyContact,
	}
}

func toRideResponse(ride *domain.Ride) RideResponse {
	return RideResponse{
		ID:              ride.ID,
		UserID:          ride.UserID,
		PickupLat:       ride.Pickup.Lat,
		PickupLng:       ride.Pickup.Lng,
		DestinationLat:  ride.Destination.Lat,
		DestinationLng:  ride.Destination.Lng,
		DriverName:      ride.DriverName,
		CarDetails:      ride.CarDetails,
		Status:          string(ride.Status),
		Fare:            ride.Fare,
		DurationMinutes: ride.DurationMinutes,
		CreatedAt:       ride.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
