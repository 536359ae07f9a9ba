package grpc

// proto.go defines the gRPC server interface for coopandina.teller.v1.TellerService.
// This file serves as a stand-in for buf-generated code. Once `buf generate` is run,
// replace this file with the import from the generated package.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TellerServiceServer is the server API for TellerService.
type TellerServiceServer interface {
	OpenAccount(context.Context, *OpenAccountRequest) (*OpenAccountResponse, error)
	Deposit(context.Context, *DepositRequest) (*DepositResponse, error)
	PayCollectionItem(context.Context, *PayCollectionItemRequest) (*PayCollectionItemResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error)
	GetLoanStatement(context.Context, *GetLoanStatementRequest) (*GetLoanStatementResponse, error)
	SyncAll(context.Context, *SyncAllRequest) (*SyncAllResponse, error)
	mustEmbedUnimplementedTellerServiceServer()
}

// UnimplementedTellerServiceServer provides forward-compatible default implementations.
type UnimplementedTellerServiceServer struct{}

func (UnimplementedTellerServiceServer) OpenAccount(context.Context, *OpenAccountRequest) (*OpenAccountResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method OpenAccount not implemented")
}
func (UnimplementedTellerServiceServer) Deposit(context.Context, *DepositRequest) (*DepositResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Deposit not implemented")
}
func (UnimplementedTellerServiceServer) PayCollectionItem(context.Context, *PayCollectionItemRequest) (*PayCollectionItemResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PayCollectionItem not implemented")
}
func (UnimplementedTellerServiceServer) GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAccount not implemented")
}
func (UnimplementedTellerServiceServer) GetLoanStatement(context.Context, *GetLoanStatementRequest) (*GetLoanStatementResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoanStatement not implemented")
}
func (UnimplementedTellerServiceServer) SyncAll(context.Context, *SyncAllRequest) (*SyncAllResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SyncAll not implemented")
}
func (UnimplementedTellerServiceServer) mustEmbedUnimplementedTellerServiceServer() {}

// RegisterTellerServiceServer registers the TellerServiceServer with the gRPC server.
func RegisterTellerServiceServer(s *grpclib.Server, srv TellerServiceServer) {
	s.RegisterService(&_TellerService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _TellerService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "coopandina.teller.v1.TellerService",
	HandlerType: (*TellerServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "OpenAccount", Handler: _TellerService_OpenAccount_Handler},             //nolint:revive // gRPC handler registration
		{MethodName: "Deposit", Handler: _TellerService_Deposit_Handler},                     //nolint:revive // gRPC handler registration
		{MethodName: "PayCollectionItem", Handler: _TellerService_PayCollectionItem_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "GetAccount", Handler: _TellerService_GetAccount_Handler},               //nolint:revive // gRPC handler registration
		{MethodName: "GetLoanStatement", Handler: _TellerService_GetLoanStatement_Handler},   //nolint:revive // gRPC handler registration
		{MethodName: "SyncAll", Handler: _TellerService_SyncAll_Handler},                     //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _TellerService_OpenAccount_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(OpenAccountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TellerServiceServer).OpenAccount(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/coopandina.teller.v1.TellerService/OpenAccount",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TellerServiceServer).OpenAccount(ctx, req.(*OpenAccountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _TellerService_Deposit_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(DepositRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TellerServiceServer).Deposit(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/coopandina.teller.v1.TellerService/Deposit",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TellerServiceServer).Deposit(ctx, req.(*DepositRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _TellerService_PayCollectionItem_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(PayCollectionItemRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TellerServiceServer).PayCollectionItem(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/coopandina.teller.v1.TellerService/PayCollectionItem",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TellerServiceServer).PayCollectionItem(ctx, req.(*PayCollectionItemRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _TellerService_GetAccount_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetAccountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TellerServiceServer).GetAccount(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/coopandina.teller.v1.TellerService/GetAccount",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TellerServiceServer).GetAccount(ctx, req.(*GetAccountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _TellerService_GetLoanStatement_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetLoanStatementRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TellerServiceServer).GetLoanStatement(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/coopandina.teller.v1.TellerService/GetLoanStatement",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TellerServiceServer).GetLoanStatement(ctx, req.(*GetLoanStatementRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _TellerService_SyncAll_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(SyncAllRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TellerServiceServer).SyncAll(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/coopandina.teller.v1.TellerService/SyncAll",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TellerServiceServer).SyncAll(ctx, req.(*SyncAllRequest))
	}
	return interceptor(ctx, in, info, handler)
}
