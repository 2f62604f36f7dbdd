package api

import (
	"context"
	"fmt"
	"net/url"
)

// Transaction is a single ledger entry.
type Transaction struct {
	ID                  int64    `json:"id,omitempty"`
	Amount              string   `json:"amount"`
	Description         string   `json:"description"`
	Date                string   `json:"date"`
	Currency            string   `json:"currency,omitempty"`
	Notes               string   `json:"notes,omitempty"`
	Status              string   `json:"status,omitempty"`
	TransactionType     string   `json:"transaction_type,omitempty"`
	TransactionCategory string   `json:"transaction_category,omitempty"`
	AccountID           *int64   `json:"account,omitempty"`
	TransferAccountID   *int64   `json:"transfer_account,omitempty"`
	CategoryID          *int64   `json:"category,omitempty"`
	SuggestedCategoryID *int64   `json:"suggested_category,omitempty"`
	TagIDs              []int64  `json:"tags,omitempty"`
	MerchantName        *string  `json:"merchant_name,omitempty"`
	Verified            bool     `json:"verified,omitempty"`
}

// TransactionFilter narrows a transaction listing. Zero-value fields
// are omitted from the query.
type TransactionFilter struct {
	StartDate string
	EndDate   string
	AccountID int64
	Category  string
	Search    string
}

func (f *TransactionFilter) query() string {
	if f == nil {
		return ""
	}
	values := url.Values{}
	if f.StartDate != "" {
		values.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		values.Set("end_date", f.EndDate)
	}
	if f.AccountID != 0 {
		values.Set("account", fmt.Sprintf("%d", f.AccountID))
	}
	if f.Category != "" {
		values.Set("category", f.Category)
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// TransactionsService operates on /transactions/.
type TransactionsService struct {
	service
}

func (s *TransactionsService) List(ctx context.Context, filter *TransactionFilter) ([]Transaction, error) {
	var transactions []Transaction
	if err := s.get(ctx, "transactions/"+filter.query(), &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *TransactionsService) Get(ctx context.Context, id int64) (*Transaction, error) {
	var transaction Transaction
	if err := s.get(ctx, fmt.Sprintf("transactions/%d/", id), &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (s *TransactionsService) Create(ctx context.Context, transaction *Transaction) (*Transaction, error) {
	var created Transaction
	if err := s.post(ctx, "transactions/", transaction, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *TransactionsService) Update(ctx context.Context, id int64, transaction *Transaction) (*Transaction, error) {
	var updated Transaction
	if err := s.patch(ctx, fmt.Sprintf("transactions/%d/", id), transaction, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *TransactionsService) Delete(ctx context.Context, id int64) error {
	return s.delete(ctx, fmt.Sprintf("transactions/%d/", id))
}
