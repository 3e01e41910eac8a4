package gateway

import (
	"context"
	"io"
	"time"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// Login posts the credentials and returns a session carrying the cookies the
// server set. The cookie values are kept opaque.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	req := Request{Kind: domain.KindGeneric, Action: domain.Login, Body: creds}
	start := time.Now()
	resp, err := c.send(ctx, req)
	if err != nil {
		c.observe(req, "transport", start, 0, err)
		return domain.Session{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.breaker.RecordSuccess()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(req, "remote", start, resp.StatusCode, nil)
		return domain.Session{}, apperror.Remote(resp.StatusCode, extractMessage(body))
	}
	c.observe(req, "ok", start, resp.StatusCode, nil)

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return domain.Session{}, apperror.Remote(resp.StatusCode, "Login succeeded but no session cookie was set")
	}
	return domain.Session{Cookies: cookies, Email: creds.Email}, nil
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.Invoke(ctx, Request{Kind: domain.KindGeneric, Action: domain.Logout}, nil)
}

// Details returns who the current session belongs to.
func (c *Client) Details(ctx context.Context) (domain.UserDetails, error) {
	var d domain.UserDetails
	err := c.Invoke(ctx, Request{Kind: domain.KindGeneric, Action: domain.Details}, &d)
	return d, err
}
