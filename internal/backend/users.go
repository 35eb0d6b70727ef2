package backend

import (
	"context"

	"voteguard/internal/domain"
)

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Register creates a user account. The repeat-password field is never sent.
func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	req := registerRequest{
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Username:  reg.Username,
		Email:     reg.Email,
		Password:  reg.Password,
	}
	return c.post(ctx, path("users", "register"), req, nil)
}
