package transferv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "offchain.transfer.v1.TransferService"

	TransferService_CreateTransfer_FullMethodName = "/" + ServiceName + "/CreateTransfer"
	TransferService_GetTransfer_FullMethodName    = "/" + ServiceName + "/GetTransfer"
	TransferService_ListTransfers_FullMethodName  = "/" + ServiceName + "/ListTransfers"
	TransferService_ResumeTransfer_FullMethodName = "/" + ServiceName + "/ResumeTransfer"
	TransferService_GetWallet_FullMethodName      = "/" + ServiceName + "/GetWallet"
)

// TransferServiceServer is the server API for TransferService
type TransferServiceServer interface {
	CreateTransfer(context.Context, *CreateTransferRequest) (*CreateTransferResponse, error)
	GetTransfer(context.Context, *GetTransferRequest) (*GetTransferResponse, error)
	ListTransfers(context.Context, *ListTransfersRequest) (*ListTransfersResponse, error)
	ResumeTransfer(context.Context, *ResumeTransferRequest) (*ResumeTransferResponse, error)
	GetWallet(context.Context, *GetWalletRequest) (*GetWalletResponse, error)
}

// UnimplementedTransferServiceServer can be embedded to have forward compatible implementations
type UnimplementedTransferServiceServer struct{}

func (UnimplementedTransferServiceServer) CreateTransfer(context.Context, *CreateTransferRequest) (*CreateTransferResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateTransfer not implemented")
}

func (UnimplementedTransferServiceServer) GetTransfer(context.Context, *GetTransferRequest) (*GetTransferResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTransfer not implemented")
}

func (UnimplementedTransferServiceServer) ListTransfers(context.Context, *ListTransfersRequest) (*ListTransfersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTransfers not implemented")
}

func (UnimplementedTransferServiceServer) ResumeTransfer(context.Context, *ResumeTransferRequest) (*ResumeTransferResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResumeTransfer not implemented")
}

func (UnimplementedTransferServiceServer) GetWallet(context.Context, *GetWalletRequest) (*GetWalletResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWallet not implemented")
}

// RegisterTransferServiceServer registers srv on s
func RegisterTransferServiceServer(s grpc.ServiceRegistrar, srv TransferServiceServer) {
	s.RegisterService(&TransferService_ServiceDesc, srv)
}

func _TransferService_CreateTransfer_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateTransferRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TransferServiceServer).CreateTransfer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TransferService_CreateTransfer_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransferServiceServer).CreateTransfer(ctx, req.(*CreateTransferRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TransferService_GetTransfer_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetTransferRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TransferServiceServer).GetTransfer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TransferService_GetTransfer_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransferServiceServer).GetTransfer(ctx, req.(*GetTransferRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TransferService_ListTransfers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListTransfersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TransferServiceServer).ListTransfers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TransferService_ListTransfers_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransferServiceServer).ListTransfers(ctx, req.(*ListTransfersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TransferService_ResumeTransfer_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ResumeTransferRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TransferServiceServer).ResumeTransfer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TransferService_ResumeTransfer_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransferServiceServer).ResumeTransfer(ctx, req.(*ResumeTransferRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TransferService_GetWallet_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetWalletRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TransferServiceServer).GetWallet(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TransferService_GetWallet_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransferServiceServer).GetWallet(ctx, req.(*GetWalletRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// TransferService_ServiceDesc is the grpc.ServiceDesc for TransferService
var TransferService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TransferServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateTransfer", Handler: _TransferService_CreateTransfer_Handler},
		{MethodName: "GetTransfer", Handler: _TransferService_GetTransfer_Handler},
		{MethodName: "ListTransfers", Handler: _TransferService_ListTransfers_Handler},
		{MethodName: "ResumeTransfer", Handler: _TransferService_ResumeTransfer_Handler},
		{MethodName: "GetWallet", Handler: _TransferService_GetWallet_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "offchain/transfer/v1/transfer.proto",
}
