package api

import (
	"context"

	"github.com/fintrack/go-client/profile"
)

// Preferences are the user's display and notification settings.
// Pointer fields distinguish "leave unchanged" from an explicit zero.
type Preferences struct {
	PreferredCurrency    *string `json:"preferred_currency,omitempty"`
	PreferredDateFormat  *string `json:"preferred_date_format,omitempty"`
	Timezone             *string `json:"timezone,omitempty"`
	Language             *string `json:"language,omitempty"`
	Theme                *string `json:"theme,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	EmailNotifications   *bool   `json:"email_notifications,omitempty"`
	PushNotifications    *bool   `json:"push_notifications,omitempty"`
}

// UsersService operates on /users/.
type UsersService struct {
	service
}

// Me fetches the current user record and refreshes the local profile
// mirror with it.
func (s *UsersService) Me(ctx context.Context) (*profile.User, error) {
	var user profile.User
	if err := s.get(ctx, "users/me/", &user); err != nil {
		return nil, err
	}
	s.session.Profile().Put(&user)
	return &user, nil
}

// UpdatePreferences applies the non-nil preference fields.
func (s *UsersService) UpdatePreferences(ctx context.Context, prefs *Preferences) (*profile.User, error) {
	var user profile.User
	if err := s.patch(ctx, "users/update_preferences/", prefs, &user); err != nil {
		return nil, err
	}
	s.session.Profile().Put(&user)
	return &user, nil
}
