package httpapi

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var keepAlive = 15 * time.Second

// events streams each new booking as a "new-booking" server-sent event until
// the client goes away.
func (a *api) events(c *gin.Context) {
	sub := a.hub.Subscribe()
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()
	log.Printf("sse: viewer connected (%d live)", a.hub.Len())

	tick := time.NewTicker(keepAlive)
	defer tick.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-tick.C:
			_, err := io.WriteString(w, ": ping\n\n")
			return err == nil
		case ev, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Booking)
			return true
		}
	})
	log.Printf("sse: viewer disconnected")
}
