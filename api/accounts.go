package api

import (
	"context"
	"fmt"
	"time"
)

// Account is a financial account. Monetary amounts arrive as decimal
// strings, matching the backend's serialization; dates in YYYY-MM-DD.
type Account struct {
	ID                  int64     `json:"id,omitempty"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	AccountType         string    `json:"account_type"`
	Status              string    `json:"status,omitempty"`
	Balance             string    `json:"balance,omitempty"`
	AvailableBalance    string    `json:"available_balance,omitempty"`
	Currency            string    `json:"currency,omitempty"`
	CreditLimit         *string   `json:"credit_limit,omitempty"`
	MinimumBalance      string    `json:"minimum_balance,omitempty"`
	Institution         string    `json:"institution,omitempty"`
	AccountNumberMasked string    `json:"account_number_masked,omitempty"`
	IsPrimary           bool      `json:"is_primary,omitempty"`
	IncludeInBudget     *bool     `json:"include_in_budget,omitempty"`
	OpenedDate          string    `json:"opened_date,omitempty"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
	UpdatedAt           time.Time `json:"updated_at,omitempty"`
}

// AccountsService operates on /accounts/.
type AccountsService struct {
	service
}

func (s *AccountsService) List(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := s.get(ctx, "accounts/", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *AccountsService) Get(ctx context.Context, id int64) (*Account, error) {
	var account Account
	if err := s.get(ctx, fmt.Sprintf("accounts/%d/", id), &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountsService) Create(ctx context.Context, account *Account) (*Account, error) {
	var created Account
	if err := s.post(ctx, "accounts/", account, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *AccountsService) Update(ctx context.Context, id int64, account *Account) (*Account, error) {
	var updated Account
	if err := s.patch(ctx, fmt.Sprintf("accounts/%d/", id), account, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *AccountsService) Delete(ctx context.Context, id int64) error {
	return s.delete(ctx, fmt.Sprintf("accounts/%d/", id))
}
