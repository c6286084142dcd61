package backend

import (
	"context"
	"net/url"

	"github.com/g7food/client/internal/apperr"
	"github.com/g7food/client/internal/domain"
)

// CurrentUser fetches the user the access token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var u UserPayload
	if err := c.get(ctx, "/users/token", &u); err != nil {
		return domain.User{}, err
	}
	if u.ID == "" {
		return domain.User{}, apperr.MalformedErr("", errMissing("id"))
	}
	return u.ToUser(), nil
}

// UpdateUser saves the editable profile fields of user id.
func (c *Client) UpdateUser(ctx context.Context, id string, r ProfileUpdateRequest) (domain.User, error) {
	var u UserPayload
	if err := c.put(ctx, "/users/"+url.PathEscape(id), r, &u); err != nil {
		return domain.User{}, err
	}
	if u.ID == "" {
		// Some deployments answer with an empty body; echo the submitted values.
		return domain.User{ID: id, Email: r.Email, FirstName: r.FirstName, LastName: r.LastName, Phone: r.Phone}, nil
	}
	return u.ToUser(), nil
}

// EmailExists reports whether an account already uses email.
func (c *Client) EmailExists(ctx context.Context, email string) (bool, error) {
	var resp emailExistsResponse
	if err := c.get(ctx, "/users/check-email?email="+url.QueryEscape(email), &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}
