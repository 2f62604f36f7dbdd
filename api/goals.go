package api

import (
	"context"
	"fmt"
)

// Goal is a savings or spending target.
type Goal struct {
	ID            int64  `json:"id,omitempty"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	GoalType      string `json:"goal_type"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount,omitempty"`
	TargetDate    string `json:"target_date,omitempty"`
	Status        string `json:"status,omitempty"`
}

// GoalsService operates on /goals/.
type GoalsService struct {
	service
}

func (s *GoalsService) List(ctx context.Context) ([]Goal, error) {
	var goals []Goal
	if err := s.get(ctx, "goals/", &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (s *GoalsService) Get(ctx context.Context, id int64) (*Goal, error) {
	var goal Goal
	if err := s.get(ctx, fmt.Sprintf("goals/%d/", id), &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GoalsService) Create(ctx context.Context, goal *Goal) (*Goal, error) {
	var created Goal
	if err := s.post(ctx, "goals/", goal, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *GoalsService) Update(ctx context.Context, id int64, goal *Goal) (*Goal, error) {
	var updated Goal
	if err := s.patch(ctx, fmt.Sprintf("goals/%d/", id), goal, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *GoalsService) Delete(ctx context.Context, id int64) error {
	return s.delete(ctx, fmt.Sprintf("goals/%d/", id))
}
