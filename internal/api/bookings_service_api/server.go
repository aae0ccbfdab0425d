package bookings_service_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
	"github.com/softdevglobal/bms-pro-sub000/internal/service/bookings"
)

// Server implements BookingViewServer on top of the booking service.
type Server struct {
	bookings bookings.BookingUseCase
}

func NewServer(bookings bookings.BookingUseCase) *Server {
	return &Server{bookings: bookings}
}

type listRequest struct {
	OwnerID string             `json:"ownerId"`
	Query   bookings.ListQuery `json:"query"`
}

type bookingRequest struct {
	OwnerID string `json:"ownerId"`
	ID      string `json:"id"`
	Status  string `json:"status"`
}

func (s *Server) ListBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in listRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	res, err := s.bookings.List(ctx, in.OwnerID, in.Query)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *Server) GetBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in bookingRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	row, err := s.bookings.Get(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(row)
}

func (s *Server) UpdateStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in bookingRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		return nil, status.Error(codes.InvalidArgument, "status is required")
	}
	row, err := s.bookings.UpdateStatus(ctx, in.OwnerID, in.ID, in.Status)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(row)
}

func decode(req *structpb.Struct, dst any) error {
	raw, err := json.Marshal(req.AsMap())
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("malformed request: %v", err))
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var _ BookingViewServer = (*Server)(nil)
