package api

import "context"

// BalanceSummary is the user's net position across every expense group
// they belong to. The amount is a decimal string.
type BalanceSummary struct {
	UserID            int64  `json:"user_id"`
	Username          string `json:"username"`
	OverallNetBalance string `json:"overall_net_balance"`
}

// BalancesService reads shared-expense balance summaries.
type BalancesService struct {
	service
}

// Summary fetches the caller's overall balance across all groups.
func (s *BalancesService) Summary(ctx context.Context) (*BalanceSummary, error) {
	var out BalanceSummary
	if err := s.get(ctx, "balances/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
