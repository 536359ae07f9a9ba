package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/coopandina/teller/internal/application/dto"
	"github.com/coopandina/teller/internal/application/usecase"
	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/infrastructure/auth"
)

// TellerHandler exposes teller operations over gRPC.
type TellerHandler struct {
	UnimplementedTellerServiceServer

	openAccount  *usecase.OpenAccountUseCase
	deposit      *usecase.DepositUseCase
	payItem      *usecase.PayCollectionItemUseCase
	getAccount   *usecase.GetAccountUseCase
	getStatement *usecase.GetLoanStatementUseCase
	sync         *usecase.SyncCoordinator
}

// NewTellerHandler creates a new handler with all use-case dependencies.
func NewTellerHandler(
	openAccount *usecase.OpenAccountUseCase,
	deposit *usecase.DepositUseCase,
	payItem *usecase.PayCollectionItemUseCase,
	getAccount *usecase.GetAccountUseCase,
	getStatement *usecase.GetLoanStatementUseCase,
	sync *usecase.SyncCoordinator,
) *TellerHandler {
	return &TellerHandler{
		openAccount:  openAccount,
		deposit:      deposit,
		payItem:      payItem,
		getAccount:   getAccount,
		getStatement: getStatement,
		sync:         sync,
	}
}

// OpenAccountRequest is the wire request for opening an account.
type OpenAccountRequest struct {
	MemberID         string `json:"member_id"`
	Variant          string `json:"variant"`
	InitialAmount    string `json:"initial_amount"`
	MinorMemberID    string `json:"minor_member_id,omitempty"`
	GuardianMemberID string `json:"guardian_member_id,omitempty"`
	TermDays         int    `json:"term_days,omitempty"`
	TargetAmount     string `json:"target_amount,omitempty"`
	CaptureLocation  bool   `json:"capture_location,omitempty"`
}

// OpenAccountResponse is the wire response for opening an account.
type OpenAccountResponse struct {
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number"`
	Variant       string `json:"variant"`
	Balance       string `json:"balance"`
	Status        string `json:"status"`
	OpenedAt      string `json:"opened_at"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
}

// DepositRequest is the wire request for a cash deposit.
type DepositRequest struct {
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
	Note      string `json:"note,omitempty"`
}

// DepositResponse is the wire response for a cash deposit.
type DepositResponse struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	NewBalance    string `json:"new_balance"`
	ReceiptNumber string `json:"receipt_number"`
	PostedAt      string `json:"posted_at"`
}

// PayCollectionItemRequest is the wire request for a debt payment.
type PayCollectionItemRequest struct {
	CollectionItemID string `json:"collection_item_id"`
	Amount           string `json:"amount"`
	Note             string `json:"note,omitempty"`
}

// PayCollectionItemResponse is the wire response for a debt payment.
type PayCollectionItemResponse struct {
	TransactionID string `json:"transaction_id"`
	Outstanding   string `json:"outstanding"`
	Status        string `json:"status"`
	ReceiptNumber string `json:"receipt_number"`
	PostedAt      string `json:"posted_at"`
}

// GetAccountRequest is the wire request for an account lookup.
type GetAccountRequest struct {
	AccountID string `json:"account_id"`
}

// GetAccountResponse is the wire view of one account.
type GetAccountResponse struct {
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number"`
	MemberID      string `json:"member_id"`
	Variant       string `json:"variant"`
	Balance       string `json:"balance"`
	Status        string `json:"status"`
	OpenedAt      string `json:"opened_at"`
	TermDays      int    `json:"term_days,omitempty"`
	MaturityDate  string `json:"maturity_date,omitempty"`
	TargetAmount  string `json:"target_amount,omitempty"`
}

// GetLoanStatementRequest is the wire request for a loan statement.
type GetLoanStatementRequest struct {
	LoanID string `json:"loan_id"`
	// AsOf is an RFC 3339 date; empty means now.
	AsOf string `json:"as_of,omitempty"`
}

// InstallmentView is the wire projection of one installment.
type InstallmentView struct {
	Number         int    `json:"number"`
	DueDate        string `json:"due_date"`
	Scheduled      string `json:"scheduled"`
	Principal      string `json:"principal"`
	Interest       string `json:"interest"`
	AmountPaid     string `json:"amount_paid"`
	AccruedLateFee string `json:"accrued_late_fee"`
	TotalDue       string `json:"total_due"`
	RemainingDue   string `json:"remaining_due"`
	DaysOverdue    int    `json:"days_overdue"`
	Paid           bool   `json:"paid"`
	Overdue        bool   `json:"overdue"`
}

// GetLoanStatementResponse is the wire view of a loan's position.
type GetLoanStatementResponse struct {
	LoanID               string            `json:"loan_id"`
	MemberID             string            `json:"member_id"`
	Status               string            `json:"status"`
	OriginalAmount       string            `json:"original_amount"`
	OutstandingPrincipal string            `json:"outstanding_principal"`
	TotalLateFee         string            `json:"total_late_fee"`
	PendingInterest      string            `json:"pending_interest"`
	AsOf                 string            `json:"as_of"`
	Installments         []InstallmentView `json:"installments"`
}

// SyncAllRequest triggers a full sync pass.
type SyncAllRequest struct{}

// SyncBatchResult is the wire outcome of one entity type's batch.
type SyncBatchResult struct {
	EntityType string `json:"entity_type"`
	Attempted  int    `json:"attempted"`
	Synced     int    `json:"synced"`
	Error      string `json:"error,omitempty"`
}

// SyncAllResponse is the wire report of a full sync pass.
type SyncAllResponse struct {
	StartedAt    string            `json:"started_at"`
	FinishedAt   string            `json:"finished_at"`
	AllSucceeded bool              `json:"all_succeeded"`
	Batches      []SyncBatchResult `json:"batches"`
}

// OpenAccount handles the gRPC OpenAccount request.
func (h *TellerHandler) OpenAccount(ctx context.Context, req *OpenAccountRequest) (*OpenAccountResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid member_id: %v", err))
	}
	initial, err := parseAmount(req.InitialAmount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid initial_amount: %v", err))
	}

	ucReq := dto.OpenAccountRequest{
		MemberID:        memberID,
		Variant:         req.Variant,
		InitialAmount:   initial,
		TermDays:        req.TermDays,
		CaptureLocation: req.CaptureLocation,
	}
	ucReq.TellerID, ucReq.TellerName = tellerFromContext(ctx)

	if req.MinorMemberID != "" {
		if ucReq.MinorMemberID, err = uuid.Parse(req.MinorMemberID); err != nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid minor_member_id: %v", err))
		}
	}
	if req.GuardianMemberID != "" {
		if ucReq.GuardianMemberID, err = uuid.Parse(req.GuardianMemberID); err != nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid guardian_member_id: %v", err))
		}
	}
	if req.TargetAmount != "" {
		target, err := decimal.NewFromString(req.TargetAmount)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid target_amount: %v", err))
		}
		ucReq.TargetAmount = &target
	}

	result, err := h.openAccount.Execute(ctx, ucReq)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &OpenAccountResponse{
		AccountID:     result.AccountID.String(),
		AccountNumber: result.AccountNumber,
		Variant:       result.Variant,
		Balance:       result.Balance.StringFixed(2),
		Status:        result.Status,
		OpenedAt:      result.OpenedAt.Format(time.RFC3339),
		ReceiptNumber: result.ReceiptNumber,
	}, nil
}

// Deposit handles the gRPC Deposit request.
func (h *TellerHandler) Deposit(ctx context.Context, req *DepositRequest) (*DepositResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid account_id: %v", err))
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid amount: %v", err))
	}

	ucReq := dto.DepositRequest{
		AccountID: accountID,
		Amount:    amount,
		Note:      req.Note,
	}
	ucReq.TellerID, ucReq.TellerName = tellerFromContext(ctx)

	result, err := h.deposit.Execute(ctx, ucReq)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &DepositResponse{
		TransactionID: result.TransactionID.String(),
		AccountID:     result.AccountID.String(),
		NewBalance:    result.NewBalance.StringFixed(2),
		ReceiptNumber: result.ReceiptNumber,
		PostedAt:      result.PostedAt.Format(time.RFC3339),
	}, nil
}

// PayCollectionItem handles the gRPC PayCollectionItem request.
func (h *TellerHandler) PayCollectionItem(ctx context.Context, req *PayCollectionItemRequest) (*PayCollectionItemResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	itemID, err := uuid.Parse(req.CollectionItemID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid collection_item_id: %v", err))
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid amount: %v", err))
	}

	ucReq := dto.PayCollectionItemRequest{
		CollectionItemID: itemID,
		Amount:           amount,
		Note:             req.Note,
	}
	ucReq.TellerID, ucReq.TellerName = tellerFromContext(ctx)

	result, err := h.payItem.Execute(ctx, ucReq)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &PayCollectionItemResponse{
		TransactionID: result.TransactionID.String(),
		Outstanding:   result.Outstanding.StringFixed(2),
		Status:        result.Status,
		ReceiptNumber: result.ReceiptNumber,
		PostedAt:      result.PostedAt.Format(time.RFC3339),
	}, nil
}

// GetAccount handles the gRPC GetAccount request.
func (h *TellerHandler) GetAccount(ctx context.Context, req *GetAccountRequest) (*GetAccountResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid account_id: %v", err))
	}

	result, err := h.getAccount.Execute(ctx, accountID)
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &GetAccountResponse{
		AccountID:     result.AccountID.String(),
		AccountNumber: result.AccountNumber,
		MemberID:      result.MemberID.String(),
		Variant:       result.Variant,
		Balance:       result.Balance.StringFixed(2),
		Status:        result.Status,
		OpenedAt:      result.OpenedAt.Format(time.RFC3339),
		TermDays:      result.TermDays,
	}
	if !result.MaturityDate.IsZero() {
		resp.MaturityDate = result.MaturityDate.Format(time.RFC3339)
	}
	if result.TargetAmount != nil {
		resp.TargetAmount = result.TargetAmount.StringFixed(2)
	}
	return resp, nil
}

// GetLoanStatement handles the gRPC GetLoanStatement request.
func (h *TellerHandler) GetLoanStatement(ctx context.Context, req *GetLoanStatementRequest) (*GetLoanStatementResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	loanID, err := uuid.Parse(req.LoanID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid loan_id: %v", err))
	}

	asOf := time.Now()
	if req.AsOf != "" {
		asOf, err = time.Parse(time.RFC3339, req.AsOf)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid as_of: %v", err))
		}
	}

	result, err := h.getStatement.Execute(ctx, loanID, asOf)
	if err != nil {
		return nil, toStatusError(err)
	}

	installments := make([]InstallmentView, 0, len(result.Installments))
	for _, e := range result.Installments {
		installments = append(installments, InstallmentView{
			Number:         e.Number,
			DueDate:        e.DueDate.Format(time.RFC3339),
			Scheduled:      e.Scheduled.StringFixed(2),
			Principal:      e.Principal.StringFixed(2),
			Interest:       e.Interest.StringFixed(2),
			AmountPaid:     e.AmountPaid.StringFixed(2),
			AccruedLateFee: e.AccruedLateFee.StringFixed(2),
			TotalDue:       e.TotalDue.StringFixed(2),
			RemainingDue:   e.RemainingDue.StringFixed(2),
			DaysOverdue:    e.DaysOverdue,
			Paid:           e.Paid,
			Overdue:        e.Overdue,
		})
	}

	return &GetLoanStatementResponse{
		LoanID:               result.LoanID.String(),
		MemberID:             result.MemberID.String(),
		Status:               result.Status,
		OriginalAmount:       result.OriginalAmount.StringFixed(2),
		OutstandingPrincipal: result.OutstandingPrincipal.StringFixed(2),
		TotalLateFee:         result.TotalLateFee.StringFixed(2),
		PendingInterest:      result.PendingInterest.StringFixed(2),
		AsOf:                 result.AsOf.Format(time.RFC3339),
		Installments:         installments,
	}, nil
}

// SyncAll handles the gRPC SyncAll request. Partial failure is reported per
// batch, not as a call error.
func (h *TellerHandler) SyncAll(ctx context.Context, req *SyncAllRequest) (*SyncAllResponse, error) {
	report := h.sync.SyncAll(ctx)

	batches := make([]SyncBatchResult, 0, len(report.Batches))
	for _, b := range report.Batches {
		result := SyncBatchResult{
			EntityType: b.EntityType,
			Attempted:  b.Attempted,
			Synced:     b.Synced,
		}
		if b.Err != nil {
			result.Error = b.Err.Error()
		}
		batches = append(batches, result)
	}

	return &SyncAllResponse{
		StartedAt:    report.StartedAt.Format(time.RFC3339),
		FinishedAt:   report.FinishedAt.Format(time.RFC3339),
		AllSucceeded: report.AllSucceeded(),
		Batches:      batches,
	}, nil
}

// tellerFromContext resolves the operating teller from the JWT claims the
// auth interceptor attached.
func tellerFromContext(ctx context.Context) (uuid.UUID, string) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, ""
	}
	return claims.TellerID, claims.TellerName
}

// parseAmount parses a decimal amount, treating empty as zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// toStatusError maps domain errors to gRPC status codes.
func toStatusError(err error) error {
	switch {
	case errors.Is(err, model.ErrMemberNotFound),
		errors.Is(err, model.ErrAccountNotFound),
		errors.Is(err, model.ErrTransactionNotFound),
		errors.Is(err, model.ErrLoanNotFound),
		errors.Is(err, model.ErrCollectionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrInvalidAmount):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrAccountInactive),
		errors.Is(err, model.ErrCollectionPaid),
		errors.Is(err, model.ErrCollectionCancelled),
		errors.Is(err, model.ErrAmountExceedsOutstanding),
		errors.Is(err, model.ErrVersionConflict):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, usecase.ErrSyncInProgress):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, usecase.ErrNoConnectivity):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
