package rpc

import (
	"google.golang.org/protobuf/types/known/timestamppb"

	"slot-booking-api/internal/model"
)

func FromModel(b model.Booking) *Booking {
	p := &Booking{
		Id:       b.ID,
		Customer: b.Customer,
		Email:    b.Email,
		Slot:     b.Slot,
		Status:   b.Status,
	}
	if !b.CreatedAt.IsZero() {
		p.CreatedAt = timestamppb.New(b.CreatedAt)
	}
	return p
}

func (m *Booking) Model() model.Booking {
	b := model.Booking{
		ID:       m.Id,
		Customer: m.Customer,
		Email:    m.Email,
		Slot:     m.Slot,
		Status:   m.Status,
	}
	if m.CreatedAt != nil {
		b.CreatedAt = m.CreatedAt.AsTime()
	}
	return b
}
