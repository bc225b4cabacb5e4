package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slot-booking-api/internal/fanout"
	"slot-booking-api/internal/model"
)

func (a *api) dashboardPage(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Event": fanout.EventNewBooking,
	})
}

func (a *api) bookingPage(c *gin.Context) {
	c.HTML(http.StatusOK, "book.html", gin.H{
		"Slots": model.Slots(),
	})
}
