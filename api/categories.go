package api

import (
	"context"
	"fmt"
)

// Category classifies transactions; categories can nest via ParentID.
type Category struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	CategoryType string `json:"category_type,omitempty"`
	ParentID     *int64 `json:"parent,omitempty"`
	Color        string `json:"color,omitempty"`
	Icon         string `json:"icon,omitempty"`
	IsActive     bool   `json:"is_active,omitempty"`
}

// CategoriesService operates on /categories/.
type CategoriesService struct {
	service
}

func (s *CategoriesService) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.get(ctx, "categories/", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoriesService) Get(ctx context.Context, id int64) (*Category, error) {
	var category Category
	if err := s.get(ctx, fmt.Sprintf("categories/%d/", id), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoriesService) Create(ctx context.Context, category *Category) (*Category, error) {
	var created Category
	if err := s.post(ctx, "categories/", category, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *CategoriesService) Update(ctx context.Context, id int64, category *Category) (*Category, error) {
	var updated Category
	if err := s.patch(ctx, fmt.Sprintf("categories/%d/", id), category, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *CategoriesService) Delete(ctx context.Context, id int64) error {
	return s.delete(ctx, fmt.Sprintf("categories/%d/", id))
}
