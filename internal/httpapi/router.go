// Package httpapi exposes the booking service over plain HTTP: JSON intake,
// the SSE event stream, the browser pages and the gRPC-Web bridge.
package httpapi

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"

	"slot-booking-api/internal/fanout"
	"slot-booking-api/internal/middleware"
	"slot-booking-api/internal/model"
	"slot-booking-api/internal/rpc"
)

//go:embed templates/*.html
var templates embed.FS

// Intake is the part of the booking service the JSON routes call.
type Intake interface {
	CreateBooking(ctx context.Context, req *rpc.CreateBookingRequest) (*rpc.CreateBookingResponse, error)
	Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error)
}

// Lister reads back stored bookings.
type Lister interface {
	ListBookings(ctx context.Context, limit int) ([]model.Booking, error)
}

type Options struct {
	Intake Intake
	Lister Lister
	Hub    *fanout.Hub
	// optional
	Limiter *middleware.RateLimiter
	Bridge  http.Handler
}

type api struct {
	intake Intake
	lister Lister
	hub    *fanout.Hub
}

func NewRouter(o Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))

	a := &api{intake: o.Intake, lister: o.Lister, hub: o.Hub}

	limited := r.Group("/")
	if o.Limiter != nil {
		limited.Use(middleware.GinRateLimit(o.Limiter))
	}
	limited.POST("/book", a.createBooking)
	limited.POST("/register", a.register)
	if o.Bridge != nil {
		limited.POST("/"+rpc.ServiceName+"/*method", gin.WrapH(o.Bridge))
		r.OPTIONS("/"+rpc.ServiceName+"/*method", gin.WrapH(o.Bridge))
	}

	r.GET("/bookings", a.listBookings)
	r.GET("/events", a.events)
	r.GET("/", a.dashboardPage)
	r.GET("/book-slot", a.bookingPage)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	return r
}

func grpcCodeToHTTP(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.DeadlineExceeded, codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
