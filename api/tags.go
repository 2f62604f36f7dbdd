package api

import (
	"context"
	"fmt"
)

// Tag is a free-form transaction label.
type Tag struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TagsService operates on /tags/.
type TagsService struct {
	service
}

func (s *TagsService) List(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := s.get(ctx, "tags/", &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagsService) Create(ctx context.Context, tag *Tag) (*Tag, error) {
	var created Tag
	if err := s.post(ctx, "tags/", tag, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *TagsService) Update(ctx context.Context, id int64, tag *Tag) (*Tag, error) {
	var updated Tag
	if err := s.patch(ctx, fmt.Sprintf("tags/%d/", id), tag, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *TagsService) Delete(ctx context.Context, id int64) error {
	return s.delete(ctx, fmt.Sprintf("tags/%d/", id))
}
