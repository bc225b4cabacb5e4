package rpc

import (
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Message is implemented by every request and response type of the booking
// service. Field numbers follow proto/booking/v1/booking.proto.
type Message interface {
	MarshalWire() []byte
	UnmarshalWire([]byte) error
}

type Booking struct {
	Id        string
	Customer  string
	Email     string
	Slot      string
	Status    string
	CreatedAt *timestamppb.Timestamp
}

func (m *Booking) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.Id)
	out = appendString(out, 2, m.Customer)
	out = appendString(out, 3, m.Email)
	out = appendString(out, 4, m.Slot)
	out = appendString(out, 5, m.Status)
	out = appendTimestamp(out, 6, m.CreatedAt)
	return out
}

func (m *Booking) UnmarshalWire(b []byte) error {
	*m = Booking{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(&m.Id, typ, b)
		case 2:
			return consumeString(&m.Customer, typ, b)
		case 3:
			return consumeString(&m.Email, typ, b)
		case 4:
			return consumeString(&m.Slot, typ, b)
		case 5:
			return consumeString(&m.Status, typ, b)
		case 6:
			return consumeMessage(typ, b, func(v []byte) (err error) {
				m.CreatedAt, err = parseTimestamp(v)
				return err
			})
		}
		return 0
	})
}

type CreateBookingRequest struct {
	Customer string
	Email    string
	Slot     string
	Status   string
}

func (m *CreateBookingRequest) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.Customer)
	out = appendString(out, 2, m.Email)
	out = appendString(out, 3, m.Slot)
	out = appendString(out, 4, m.Status)
	return out
}

func (m *CreateBookingRequest) UnmarshalWire(b []byte) error {
	*m = CreateBookingRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(&m.Customer, typ, b)
		case 2:
			return consumeString(&m.Email, typ, b)
		case 3:
			return consumeString(&m.Slot, typ, b)
		case 4:
			return consumeString(&m.Status, typ, b)
		}
		return 0
	})
}

type CreateBookingResponse struct {
	Booking *Booking
}

func (m *CreateBookingResponse) MarshalWire() []byte {
	if m.Booking == nil {
		return nil
	}
	return appendMessage(nil, 1, m.Booking.MarshalWire())
}

func (m *CreateBookingResponse) UnmarshalWire(b []byte) error {
	*m = CreateBookingResponse{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num != 1 {
			return 0
		}
		return consumeMessage(typ, b, func(v []byte) error {
			m.Booking = &Booking{}
			return m.Booking.UnmarshalWire(v)
		})
	})
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

func (m *RegisterRequest) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.Username)
	out = appendString(out, 2, m.Email)
	out = appendString(out, 3, m.Password)
	return out
}

func (m *RegisterRequest) UnmarshalWire(b []byte) error {
	*m = RegisterRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(&m.Username, typ, b)
		case 2:
			return consumeString(&m.Email, typ, b)
		case 3:
			return consumeString(&m.Password, typ, b)
		}
		return 0
	})
}

type RegisterResponse struct {
	UserId   string
	Username string
	Email    string
}

func (m *RegisterResponse) MarshalWire() []byte {
	var out []byte
	out = appendString(out, 1, m.UserId)
	out = appendString(out, 2, m.Username)
	out = appendString(out, 3, m.Email)
	return out
}

func (m *RegisterResponse) UnmarshalWire(b []byte) error {
	*m = RegisterResponse{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(&m.UserId, typ, b)
		case 2:
			return consumeString(&m.Username, typ, b)
		case 3:
			return consumeString(&m.Email, typ, b)
		}
		return 0
	})
}

type WatchBookingsRequest struct{}

func (m *WatchBookingsRequest) MarshalWire() []byte { return nil }

// UnmarshalWire skips any fields present.
func (m *WatchBookingsRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(protowire.Number, protowire.Type, []byte) int { return 0 })
}

type BookingEvent struct {
	Name    string
	Booking *Booking
}

func (m *BookingEvent) MarshalWire() []byte {
	out := appendString(nil, 1, m.Name)
	if m.Booking != nil {
		out = appendMessage(out, 2, m.Booking.MarshalWire())
	}
	return out
}

func (m *BookingEvent) UnmarshalWire(b []byte) error {
	*m = BookingEvent{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(&m.Name, typ, b)
		case 2:
			return consumeMessage(typ, b, func(v []byte) error {
				m.Booking = &Booking{}
				return m.Booking.UnmarshalWire(v)
			})
		}
		return 0
	})
}
