package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/ColuLocalNetwork/inventory-manager/internal/adapter/grpc/transferv1"
	"github.com/ColuLocalNetwork/inventory-manager/internal/adapter/repository/memory"
	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
	"github.com/ColuLocalNetwork/inventory-manager/internal/usecase/transfer"
	"github.com/ColuLocalNetwork/inventory-manager/internal/usecase/wallet"
)

const testToken = "test-token-123"

func TestMapError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode codes.Code
	}{
		{"Validation", fmt.Errorf("%w: amount must be positive", domain.ErrValidation), codes.InvalidArgument},
		{"Not Found", fmt.Errorf("transfer not found: %w", domain.ErrNotFound), codes.NotFound},
		{"Illegal State", fmt.Errorf("%w: should be NEW", domain.ErrIllegalState), codes.FailedPrecondition},
		{"Conflict", fmt.Errorf("cas: %w", domain.ErrConcurrencyConflict), codes.Aborted},
		{"Store", domain.StoreError("bulk write", errors.New("connection reset")), codes.Unavailable},
		{"Store Deadline", domain.StoreError("find", context.DeadlineExceeded), codes.DeadlineExceeded},
		{"Unknown", errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(mapError(tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, st.Code())
			assert.Equal(t, tt.err.Error(), st.Message())
		})
	}

	assert.NoError(t, mapError(nil))
}

type testEnv struct {
	client  transferv1.TransferServiceClient
	wallets domain.WalletRepository
}

// newTestEnv serves the memory-backed server over an in-process listener
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	walletRepo := memory.NewWalletRepository()
	transferService := transfer.NewTransferService(memory.NewTransferRepository(), walletRepo, nil, nil)

	lis := bufconn.Listen(1024 * 1024)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(zap.NewNop()),
		AuthInterceptor(testToken),
	))
	transferv1.RegisterTransferServiceServer(server, NewServer(transferService, wallet.NewWalletService(walletRepo)))
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testEnv{
		client:  transferv1.NewTransferServiceClient(conn),
		wallets: walletRepo,
	}
}

func authContext() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func (e *testEnv) fund(t *testing.T, address, currency string, amount int64) {
	t.Helper()
	_, err := e.wallets.Apply(context.Background(), domain.EnsureEntryWithAmount(address, currency, decimal.NewFromInt(amount)))
	require.NoError(t, err)
}

func TestServer_CreateAndGetTransfer(t *testing.T) {
	env := newTestEnv(t)
	env.fund(t, "0xW1", "C", 100)
	ctx := authContext()

	created, err := env.client.CreateTransfer(ctx, &transferv1.CreateTransferRequest{
		From:   &transferv1.Participant{AccountAddress: "0xW1", Currency: "C"},
		To:     &transferv1.Participant{AccountAddress: "0xW2", Currency: "C"},
		Amount: "40",
	})
	require.NoError(t, err)
	assert.Equal(t, "DONE", created.Transfer.State)
	assert.Equal(t, "40", created.Transfer.Amount)
	assert.NotNil(t, created.Transfer.CreatedAt)

	got, err := env.client.GetTransfer(ctx, &transferv1.GetTransferRequest{Id: created.Transfer.Id})
	require.NoError(t, err)
	assert.Equal(t, created.Transfer.Id, got.Transfer.Id)
	assert.Equal(t, created.Transfer.CreatedAt.AsTime(), got.Transfer.CreatedAt.AsTime())

	sender, err := env.client.GetWallet(ctx, &transferv1.GetWalletRequest{Address: "0xW1"})
	require.NoError(t, err)
	require.Len(t, sender.Balances, 1)
	assert.Equal(t, "60", sender.Balances[0].OffchainAmount)
	assert.Empty(t, sender.Balances[0].PendingTxs)

	listed, err := env.client.ListTransfers(ctx, &transferv1.ListTransfersRequest{Address: "0xW2", State: "done"})
	require.NoError(t, err)
	assert.Len(t, listed.Transfers, 1)
}

func TestServer_CreateTransfer_InsufficientFundsIsCanceled(t *testing.T) {
	env := newTestEnv(t)
	env.fund(t, "0xW1", "C", 10)

	created, err := env.client.CreateTransfer(authContext(), &transferv1.CreateTransferRequest{
		From:   &transferv1.Participant{AccountAddress: "0xW1", Currency: "C"},
		To:     &transferv1.Participant{AccountAddress: "0xW2", Currency: "C"},
		Amount: "40",
	})

	require.NoError(t, err)
	assert.Equal(t, "CANCELED", created.Transfer.State)
}

func TestServer_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := authContext()

	tests := []struct {
		name         string
		call         func() error
		expectedCode codes.Code
	}{
		{
			name: "Invalid Amount",
			call: func() error {
				_, err := env.client.CreateTransfer(ctx, &transferv1.CreateTransferRequest{
					From:   &transferv1.Participant{AccountAddress: "0xW1", Currency: "C"},
					To:     &transferv1.Participant{AccountAddress: "0xW2", Currency: "C"},
					Amount: "-1",
				})
				return err
			},
			expectedCode: codes.InvalidArgument,
		},
		{
			name: "Missing Participant",
			call: func() error {
				_, err := env.client.CreateTransfer(ctx, &transferv1.CreateTransferRequest{Amount: "1"})
				return err
			},
			expectedCode: codes.InvalidArgument,
		},
		{
			name: "Malformed Id",
			call: func() error {
				_, err := env.client.GetTransfer(ctx, &transferv1.GetTransferRequest{Id: "nope"})
				return err
			},
			expectedCode: codes.InvalidArgument,
		},
		{
			name: "Unknown Transfer",
			call: func() error {
				_, err := env.client.ResumeTransfer(ctx, &transferv1.ResumeTransferRequest{Id: uuid.NewString()})
				return err
			},
			expectedCode: codes.NotFound,
		},
		{
			name: "Unknown State Filter",
			call: func() error {
				_, err := env.client.ListTransfers(ctx, &transferv1.ListTransfersRequest{State: "LOST"})
				return err
			},
			expectedCode: codes.InvalidArgument,
		},
		{
			name: "Unknown Wallet",
			call: func() error {
				_, err := env.client.GetWallet(ctx, &transferv1.GetWalletRequest{Address: "0xW9"})
				return err
			},
			expectedCode: codes.NotFound,
		},
		{
			name: "Missing Token",
			call: func() error {
				_, err := env.client.GetWallet(context.Background(), &transferv1.GetWalletRequest{Address: "0xW1"})
				return err
			},
			expectedCode: codes.Unauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.Equal(t, tt.expectedCode, status.Code(err))
		})
	}
}
