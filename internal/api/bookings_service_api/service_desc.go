package bookings_service_api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "bms.bookingview.v1.BookingView"

// BookingViewServer is the gRPC surface of the booking view. Requests and
// responses are google.protobuf.Struct documents carrying the same JSON the
// REST API uses.
type BookingViewServer interface {
	ListBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterBookingViewServer(s grpc.ServiceRegistrar, srv BookingViewServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingViewServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListBookings", Handler: unaryHandler("ListBookings", BookingViewServer.ListBookings)},
		{MethodName: "GetBooking", Handler: unaryHandler("GetBooking", BookingViewServer.GetBooking)},
		{MethodName: "UpdateStatus", Handler: unaryHandler("UpdateStatus", BookingViewServer.UpdateStatus)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookingview/v1/booking_view.proto",
}

type method func(BookingViewServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call method) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BookingViewServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BookingViewServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client is a thin client for the BookingView service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ListBookings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListBookings", in, opts...)
}

func (c *Client) GetBooking(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetBooking", in, opts...)
}

func (c *Client) UpdateStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "UpdateStatus", in, opts...)
}

func (c *Client) invoke(ctx context.Context, name string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+name, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
