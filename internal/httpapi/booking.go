package httpapi

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/status"

	"slot-booking-api/internal/model"
	"slot-booking-api/internal/rpc"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

func abortStatus(c *gin.Context, err error) {
	st, _ := status.FromError(err)
	c.JSON(grpcCodeToHTTP(st.Code()), gin.H{"error": st.Message()})
}

func (a *api) createBooking(c *gin.Context) {
	var in struct {
		Customer string `json:"customer"`
		Email    string `json:"email"`
		Slot     string `json:"slot"`
		Status   string `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	res, err := a.intake.CreateBooking(c.Request.Context(), &rpc.CreateBookingRequest{
		Customer: in.Customer,
		Email:    in.Email,
		Slot:     in.Slot,
		Status:   in.Status,
	})
	if err != nil {
		abortStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, res.Booking.Model())
}

func (a *api) register(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	res, err := a.intake.Register(c.Request.Context(), &rpc.RegisterRequest{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		abortStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":       res.UserId,
		"username": res.Username,
		"email":    res.Email,
	})
}

func (a *api) listBookings(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	limit = min(limit, maxListLimit)

	out, err := a.lister.ListBookings(c.Request.Context(), limit)
	if err != nil {
		log.Printf("list bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if out == nil {
		out = []model.Booking{}
	}
	c.JSON(http.StatusOK, out)
}
