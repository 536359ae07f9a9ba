package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/coopandina/teller/internal/application/dto"
	"github.com/coopandina/teller/internal/domain/port"
)

// GetAccountUseCase reads one account.
type GetAccountUseCase struct {
	accounts port.AccountRepository
	logger   *slog.Logger
}

// NewGetAccountUseCase wires dependencies.
func NewGetAccountUseCase(accounts port.AccountRepository, logger *slog.Logger) *GetAccountUseCase {
	return &GetAccountUseCase{accounts: accounts, logger: logger}
}

// Execute retrieves the account by id.
func (uc *GetAccountUseCase) Execute(ctx context.Context, accountID uuid.UUID) (dto.GetAccountResponse, error) {
	account, err := uc.accounts.FindByID(ctx, accountID)
	if err != nil {
		return dto.GetAccountResponse{}, fmt.Errorf("find account %s: %w", accountID, err)
	}

	resp := dto.GetAccountResponse{
		AccountID:     account.ID(),
		AccountNumber: account.Number().String(),
		MemberID:      account.MemberID(),
		Variant:       account.Variant().String(),
		Balance:       account.Balance().Amount(),
		Status:        string(account.Status()),
		OpenedAt:      account.OpenedAt(),
		TermDays:      account.Term().Days(),
		MaturityDate:  account.MaturityDate(),
	}
	if target := account.TargetAmount(); target != nil {
		amount := target.Amount()
		resp.TargetAmount = &amount
	}
	return resp, nil
}
