// Package api provides typed access to the fintrack REST resources:
// accounts, transactions, goals, document uploads and the user profile.
// Every method is a thin request/response wrapper over the session
// layer, which owns CSRF protection, session refresh and replay.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fintrack/go-client/profile"
	"github.com/fintrack/go-client/session"
	"github.com/pkg/errors"
)

// Client aggregates the resource services behind one session.
type Client struct {
	session *session.Client

	Users        *UsersService
	Accounts     *AccountsService
	Transactions *TransactionsService
	Categories   *CategoriesService
	Tags         *TagsService
	Goals        *GoalsService
	Balances     *BalancesService
	Uploads      *UploadsService
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, options ...session.Option) (*Client, error) {
	s, err := session.New(baseURL, options...)
	if err != nil {
		return nil, err
	}
	return NewWithSession(s), nil
}

// NewWithSession wraps an existing session client, for callers that
// configured one themselves.
func NewWithSession(s *session.Client) *Client {
	svc := service{session: s}
	return &Client{
		session:      s,
		Users:        &UsersService{service: svc},
		Accounts:     &AccountsService{service: svc},
		Transactions: &TransactionsService{service: svc},
		Categories:   &CategoriesService{service: svc},
		Tags:         &TagsService{service: svc},
		Goals:        &GoalsService{service: svc},
		Balances:     &BalancesService{service: svc},
		Uploads:      &UploadsService{service: svc},
	}
}

// Session exposes the underlying session client.
func (c *Client) Session() *session.Client {
	return c.session
}

// Login authenticates and primes the profile mirror.
func (c *Client) Login(ctx context.Context, email, password string) (*profile.User, error) {
	return c.session.Login(ctx, email, password)
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (*profile.User, error) {
	return c.session.Register(ctx, email, password, fullName)
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Logout(ctx)
}

// OnSessionExpired registers fn to run on unrecoverable session loss.
func (c *Client) OnSessionExpired(fn func()) {
	c.session.OnSessionExpired(fn)
}

// service is the shared JSON plumbing embedded by every resource
// service.
type service struct {
	session *session.Client
}

func (s service) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "[api] encode %s %s request", method, path)
		}
		body = encoded
	}

	resp, err := s.session.Do(ctx, session.NewRequest(method, path, body))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := decodeJSON(resp.Body, out); err != nil {
		return errors.Wrapf(err, "[api] decode %s %s response", method, path)
	}
	return nil
}

func decodeJSON(data []byte, out any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (s service) get(ctx context.Context, path string, out any) error {
	return s.do(ctx, http.MethodGet, path, nil, out)
}

func (s service) post(ctx context.Context, path string, in, out any) error {
	return s.do(ctx, http.MethodPost, path, in, out)
}

func (s service) patch(ctx context.Context, path string, in, out any) error {
	return s.do(ctx, http.MethodPatch, path, in, out)
}

func (s service) delete(ctx context.Context, path string) error {
	return s.do(ctx, http.MethodDelete, path, nil, nil)
}
