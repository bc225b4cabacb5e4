package grpcweb

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"slot-booking-api/internal/rpc"
)

// largest request body accepted from a browser
const maxBody = 64 << 10

// Bridge answers gRPC-Web (browser HTTP/1.1) calls for the unary booking
// methods by calling the service implementation directly. WatchBookings is not
// offered here; browsers use the SSE route instead.
type Bridge struct {
	direct rpc.BookingServiceServer
}

func New(direct rpc.BookingServiceServer) *Bridge {
	return &Bridge{direct: direct}
}

// Handler returns an http.Handler that translates gRPC-Web → service calls.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, X-Grpc-Web, X-User-Agent, x-grpc-web")
		w.Header().Set("Access-Control-Expose-Headers",
			"Grpc-Status, Grpc-Message, grpc-status, grpc-message")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "application/grpc-web") || strings.HasPrefix(ct, "application/grpc-web-text") {
			http.Error(w, "not grpc-web", http.StatusUnsupportedMediaType)
			return
		}

		log.Printf("grpc-web → %s", r.URL.Path)
		b.forward(w, r)
	})
}

func (b *Bridge) forward(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		writeError(w, codes.Internal, "read body failed")
		return
	}
	if len(body) > maxBody {
		writeError(w, codes.ResourceExhausted, "body too large")
		return
	}
	if len(body) < 5 {
		writeError(w, codes.InvalidArgument, "body too short")
		return
	}

	// grpc-web frame: 1-byte flag + 4-byte big-endian length + protobuf
	msgLen := binary.BigEndian.Uint32(body[1:5])
	if int(msgLen)+5 > len(body) {
		writeError(w, codes.InvalidArgument, "incomplete frame")
		return
	}
	payload := body[5 : 5+msgLen]
	ctx := r.Context()

	var resp rpc.Message
	switch {
	case strings.HasSuffix(r.URL.Path, "/CreateBooking"):
		req := &rpc.CreateBookingRequest{}
		if err := req.UnmarshalWire(payload); err != nil {
			writeError(w, codes.InvalidArgument, "parse error")
			return
		}
		out, err := b.direct.CreateBooking(ctx, req)
		if err != nil {
			writeStatus(w, err)
			return
		}
		resp = out
	case strings.HasSuffix(r.URL.Path, "/Register"):
		req := &rpc.RegisterRequest{}
		if err := req.UnmarshalWire(payload); err != nil {
			writeError(w, codes.InvalidArgument, "parse error")
			return
		}
		out, err := b.direct.Register(ctx, req)
		if err != nil {
			writeStatus(w, err)
			return
		}
		resp = out
	default:
		writeError(w, codes.Unimplemented, "method not available over grpc-web")
		return
	}

	writeSuccess(w, resp.MarshalWire())
}

func writeStatus(w http.ResponseWriter, err error) {
	st, _ := status.FromError(err)
	log.Printf("grpc-web error: %s: %s", st.Code(), st.Message())
	writeError(w, st.Code(), st.Message())
}

func trailerFrame(trailer string) []byte {
	tf := make([]byte, 5+len(trailer))
	tf[0] = 0x80
	binary.BigEndian.PutUint32(tf[1:5], uint32(len(trailer)))
	copy(tf[5:], trailer)
	return tf
}

func writeError(w http.ResponseWriter, code codes.Code, msg string) {
	w.Header().Set("Content-Type", "application/grpc-web+proto")
	w.WriteHeader(http.StatusOK)
	w.Write(trailerFrame(fmt.Sprintf("grpc-status:%d\r\ngrpc-message:%s\r\n", code, msg)))
}

func writeSuccess(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/grpc-web+proto")
	w.WriteHeader(http.StatusOK)
	// data frame
	df := make([]byte, 5+len(data))
	df[0] = 0x00
	binary.BigEndian.PutUint32(df[1:5], uint32(len(data)))
	copy(df[5:], data)
	w.Write(df)
	w.Write(trailerFrame("grpc-status:0\r\n"))
}
