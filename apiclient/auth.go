package apiclient

import (
	"context"
	"net/http"

	"codelegends_gateway/models"
)

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return send[models.AuthResponse](ctx, c, http.MethodPost, "/users/auth", "", req, "Email ou senha inválidos")
}

func (c *Client) LoginGoogle(ctx context.Context, req models.GoogleLoginRequest) (*models.AuthResponse, error) {
	return send[models.AuthResponse](ctx, c, http.MethodPost, "/users/auth/google", "", req, "Erro ao autenticar com o Google")
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	return send[models.AuthResponse](ctx, c, http.MethodPost, "/token/refresh", "", models.RefreshRequest{RefreshToken: refreshToken}, "Sessão expirada")
}

// Me returns the current user, or nil when the backend answers 401.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/me", token, nil, &u, "Erro ao carregar usuário"); err != nil {
		if IsUnauthorized(err) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
