package grpc

// proto.go defines the gRPC server interface of
// realinsights/portfolio/v1/portfolio.proto. Messages travel through the JSON
// codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "realinsights.portfolio.v1.PortfolioService"

// PortfolioServiceServer is the server API for PortfolioService.
type PortfolioServiceServer interface {
	ComputeSchedule(context.Context, *ComputeScheduleRequest) (*ScheduleResponse, error)
	GetLoanSchedule(context.Context, *GetLoanScheduleRequest) (*ScheduleResponse, error)
	GetDashboard(context.Context, *GetDashboardRequest) (*DashboardResponse, error)
	ListLoans(context.Context, *ListLoansRequest) (*ListLoansResponse, error)
	mustEmbedUnimplementedPortfolioServiceServer()
}

// UnimplementedPortfolioServiceServer provides forward-compatible default implementations.
type UnimplementedPortfolioServiceServer struct{}

func (UnimplementedPortfolioServiceServer) ComputeSchedule(context.Context, *ComputeScheduleRequest) (*ScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ComputeSchedule not implemented")
}
func (UnimplementedPortfolioServiceServer) GetLoanSchedule(context.Context, *GetLoanScheduleRequest) (*ScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoanSchedule not implemented")
}
func (UnimplementedPortfolioServiceServer) GetDashboard(context.Context, *GetDashboardRequest) (*DashboardResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetDashboard not implemented")
}
func (UnimplementedPortfolioServiceServer) ListLoans(context.Context, *ListLoansRequest) (*ListLoansResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListLoans not implemented")
}
func (UnimplementedPortfolioServiceServer) mustEmbedUnimplementedPortfolioServiceServer() {}

// RegisterPortfolioServiceServer registers the PortfolioServiceServer with the gRPC server.
func RegisterPortfolioServiceServer(s grpclib.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&_PortfolioService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _PortfolioService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ComputeSchedule", Handler: _PortfolioService_ComputeSchedule_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "GetLoanSchedule", Handler: _PortfolioService_GetLoanSchedule_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "GetDashboard", Handler: _PortfolioService_GetDashboard_Handler},       //nolint:revive // gRPC handler registration
		{MethodName: "ListLoans", Handler: _PortfolioService_ListLoans_Handler},             //nolint:revive // gRPC handler registration
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "realinsights/portfolio/v1/portfolio.proto",
}

//nolint:revive,errcheck // gRPC handler registration
func _PortfolioService_ComputeSchedule_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ComputeScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).ComputeSchedule(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/ComputeSchedule",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).ComputeSchedule(ctx, req.(*ComputeScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _PortfolioService_GetLoanSchedule_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetLoanScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).GetLoanSchedule(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/GetLoanSchedule",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).GetLoanSchedule(ctx, req.(*GetLoanScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _PortfolioService_GetDashboard_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetDashboardRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).GetDashboard(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/GetDashboard",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).GetDashboard(ctx, req.(*GetDashboardRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _PortfolioService_ListLoans_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListLoansRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).ListLoans(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/ListLoans",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).ListLoans(ctx, req.(*ListLoansRequest))
	}
	return interceptor(ctx, in, info, handler)
}
