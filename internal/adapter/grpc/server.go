package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/ColuLocalNetwork/inventory-manager/internal/adapter/grpc/transferv1"
	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
	"github.com/ColuLocalNetwork/inventory-manager/internal/usecase/transfer"
	"github.com/ColuLocalNetwork/inventory-manager/internal/usecase/wallet"
)

// Server implements the TransferService gRPC server
type Server struct {
	transferv1.UnimplementedTransferServiceServer

	TransferService *transfer.TransferService
	WalletService   *wallet.WalletService
}

// NewServer creates a new gRPC server instance
func NewServer(
	transferService *transfer.TransferService,
	walletService *wallet.WalletService,
) *Server {
	return &Server{
		TransferService: transferService,
		WalletService:   walletService,
	}
}

// CreateTransfer handles the CreateTransfer RPC
func (s *Server) CreateTransfer(ctx context.Context, req *transferv1.CreateTransferRequest) (*transferv1.CreateTransferResponse, error) {
	if req.From == nil || req.To == nil {
		return nil, status.Errorf(codes.InvalidArgument, "from and to are required")
	}

	// Parse amount from string to decimal
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, mapError(err)
	}

	input := transfer.CreateTransferInput{
		From:   protoParticipantToDomain(req.From),
		To:     protoParticipantToDomain(req.To),
		Amount: amount,
	}

	// Call usecase service
	tx, err := s.TransferService.Create(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return &transferv1.CreateTransferResponse{
		Transfer: domainTransferToProto(tx),
	}, nil
}

// GetTransfer handles the GetTransfer RPC
func (s *Server) GetTransfer(ctx context.Context, req *transferv1.GetTransferRequest) (*transferv1.GetTransferResponse, error) {
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	tx, err := s.TransferService.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return &transferv1.GetTransferResponse{
		Transfer: domainTransferToProto(tx),
	}, nil
}

// ListTransfers handles the ListTransfers RPC
// An empty request lists every transfer; no match is NotFound
func (s *Server) ListTransfers(ctx context.Context, req *transferv1.ListTransfersRequest) (*transferv1.ListTransfersResponse, error) {
	filter := domain.TransferFilter{
		Address:  req.Address,
		Currency: req.Currency,
		State:    domain.TransferState(strings.ToUpper(req.State)),
	}

	transfers, err := s.TransferService.Get(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}

	protoTransfers := make([]*transferv1.Transfer, 0, len(transfers))
	for _, tx := range transfers {
		protoTransfers = append(protoTransfers, domainTransferToProto(tx))
	}

	return &transferv1.ListTransfersResponse{
		Transfers: protoTransfers,
	}, nil
}

// ResumeTransfer handles the ResumeTransfer RPC
func (s *Server) ResumeTransfer(ctx context.Context, req *transferv1.ResumeTransferRequest) (*transferv1.ResumeTransferResponse, error) {
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	tx, err := s.TransferService.Resume(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return &transferv1.ResumeTransferResponse{
		Transfer: domainTransferToProto(tx),
	}, nil
}

// GetWallet handles the GetWallet RPC
func (s *Server) GetWallet(ctx context.Context, req *transferv1.GetWalletRequest) (*transferv1.GetWalletResponse, error) {
	w, err := s.WalletService.GetWallet(ctx, req.Address)
	if err != nil {
		return nil, mapError(err)
	}

	balances := make([]*transferv1.Balance, 0, len(w.Balances))
	for _, b := range w.Balances {
		balances = append(balances, &transferv1.Balance{
			Currency:       b.Currency,
			OffchainAmount: b.OffchainAmount.String(),
			PendingTxs:     append([]string{}, b.PendingTxs...),
		})
	}

	return &transferv1.GetWalletResponse{
		Address:  w.Address,
		Balances: balances,
	}, nil
}

func protoParticipantToDomain(p *transferv1.Participant) domain.Participant {
	return domain.Participant{
		AccountAddress: p.AccountAddress,
		Currency:       p.Currency,
	}
}

// domainTransferToProto converts a domain Transfer to its wire message
func domainTransferToProto(tx *domain.Transfer) *transferv1.Transfer {
	protoTx := &transferv1.Transfer{
		Id:        tx.ID.String(),
		From:      &transferv1.Participant{AccountAddress: tx.From.AccountAddress, Currency: tx.From.Currency},
		To:        &transferv1.Participant{AccountAddress: tx.To.AccountAddress, Currency: tx.To.Currency},
		Amount:    tx.Amount.String(),
		State:     string(tx.State),
		CreatedAt: timestamppb.New(tx.CreatedAt),
		UpdatedAt: timestamppb.New(tx.UpdatedAt),
	}

	if tx.SettlementRef != nil {
		protoTx.Bctx = *tx.SettlementRef
	}

	return protoTx
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, domain.ErrIllegalState):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return status.Errorf(codes.Aborted, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, domain.ErrStore):
		return status.Errorf(codes.Unavailable, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
