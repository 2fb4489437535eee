package api

import (
	"context"
	"net/http"

	"github.com/rsawada/aniterm/internal/domain"
)

// Login exchanges a numeric user id for a session token. The backend has no
// passwords; identity is the dataset user id.
func (c *Client) Login(ctx context.Context, userID int) (domain.Session, error) {
	var resp loginResponse
	err := c.post(ctx, "/auth/login", map[string]int{"user_id": userID}, "", &resp)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, err
	}

	return domain.Session{
		User:  &domain.User{UserID: resp.User.UserID},
		Token: resp.Token,
	}, nil
}

// Logout tells the backend to discard the token. Callers treat failure as
// non-fatal; the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.post(ctx, "/auth/logout", nil, token, nil)
}

// Me returns the identity behind a token, with rating/history counts.
// A 401 maps to domain.ErrUnauthorized so callers can tear the session down.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var resp meResponse
	if err := c.get(ctx, "/auth/me", nil, token, &resp); err != nil {
		if IsUnauthorized(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	return &domain.User{
		UserID:       resp.User.UserID,
		RatingCount:  resp.User.RatingCount,
		HistoryCount: resp.User.HistoryCount,
	}, nil
}
