package transferv1

import (
	"context"

	"google.golang.org/grpc"
)

// TransferServiceClient is the client API for TransferService
type TransferServiceClient interface {
	CreateTransfer(ctx context.Context, in *CreateTransferRequest, opts ...grpc.CallOption) (*CreateTransferResponse, error)
	GetTransfer(ctx context.Context, in *GetTransferRequest, opts ...grpc.CallOption) (*GetTransferResponse, error)
	ListTransfers(ctx context.Context, in *ListTransfersRequest, opts ...grpc.CallOption) (*ListTransfersResponse, error)
	ResumeTransfer(ctx context.Context, in *ResumeTransferRequest, opts ...grpc.CallOption) (*ResumeTransferResponse, error)
	GetWallet(ctx context.Context, in *GetWalletRequest, opts ...grpc.CallOption) (*GetWalletResponse, error)
}

type transferServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTransferServiceClient returns a client that always requests the JSON codec
func NewTransferServiceClient(cc grpc.ClientConnInterface) TransferServiceClient {
	return &transferServiceClient{cc: cc}
}

func (c *transferServiceClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *transferServiceClient) CreateTransfer(ctx context.Context, in *CreateTransferRequest, opts ...grpc.CallOption) (*CreateTransferResponse, error) {
	out := new(CreateTransferResponse)
	if err := c.invoke(ctx, TransferService_CreateTransfer_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *transferServiceClient) GetTransfer(ctx context.Context, in *GetTransferRequest, opts ...grpc.CallOption) (*GetTransferResponse, error) {
	out := new(GetTransferResponse)
	if err := c.invoke(ctx, TransferService_GetTransfer_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *transferServiceClient) ListTransfers(ctx context.Context, in *ListTransfersRequest, opts ...grpc.CallOption) (*ListTransfersResponse, error) {
	out := new(ListTransfersResponse)
	if err := c.invoke(ctx, TransferService_ListTransfers_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *transferServiceClient) ResumeTransfer(ctx context.Context, in *ResumeTransferRequest, opts ...grpc.CallOption) (*ResumeTransferResponse, error) {
	out := new(ResumeTransferResponse)
	if err := c.invoke(ctx, TransferService_ResumeTransfer_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *transferServiceClient) GetWallet(ctx context.Context, in *GetWalletRequest, opts ...grpc.CallOption) (*GetWalletResponse, error) {
	out := new(GetWalletResponse)
	if err := c.invoke(ctx, TransferService_GetWallet_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
