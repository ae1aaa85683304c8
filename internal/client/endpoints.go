// ABOUTME: Typed wrappers for each backend REST endpoint
// ABOUTME: Every call goes through Request so auth and error rules apply uniformly

package client

import (
	"context"
	"fmt"
	"net/http"
)

// Health checks the backend and reports its auth mode. It never sends a token.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, "/health", RequestOptions{NoAuth: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, "/auth/login", RequestOptions{
		Method: http.MethodPost,
		Body:   LoginRequest{Username: username, Password: password},
		NoAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &Error{Kind: KindUnknown, Message: MsgGeneric}
	}
	return &resp, nil
}

// ListClientes returns all clients
func (c *Client) ListClientes(ctx context.Context) ([]Cliente, error) {
	var out []Cliente
	if err := c.do(ctx, "/api/clientes", RequestOptions{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCliente registers a client
func (c *Client) CreateCliente(ctx context.Context, nome string) (*Cliente, error) {
	var out Cliente
	err := c.do(ctx, "/api/clientes", RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"nome": nome},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCliente removes a client and, on the backend, its secretariats
func (c *Client) DeleteCliente(ctx context.Context, id int) error {
	return c.do(ctx, fmt.Sprintf("/api/clientes/%d", id), RequestOptions{Method: http.MethodDelete}, nil)
}

// ListSecretarias returns the secretariats of a client
func (c *Client) ListSecretarias(ctx context.Context, clienteID int) ([]Secretaria, error) {
	var out []Secretaria
	if err := c.do(ctx, fmt.Sprintf("/api/clientes/%d/secretarias", clienteID), RequestOptions{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSecretaria registers a secretariat under a client
func (c *Client) CreateSecretaria(ctx context.Context, clienteID int, nome string) (*Secretaria, error) {
	var out Secretaria
	err := c.do(ctx, "/api/secretarias", RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]any{"clienteId": clienteID, "nome": nome},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSecretaria removes a secretariat
func (c *Client) DeleteSecretaria(ctx context.Context, id int) error {
	return c.do(ctx, fmt.Sprintf("/api/secretarias/%d", id), RequestOptions{Method: http.MethodDelete}, nil)
}

// ListTiposPeca returns all piece types
func (c *Client) ListTiposPeca(ctx context.Context) ([]TipoPeca, error) {
	var out []TipoPeca
	if err := c.do(ctx, "/api/tipos-peca", RequestOptions{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTipoPeca registers a piece type
func (c *Client) CreateTipoPeca(ctx context.Context, nome string) (*TipoPeca, error) {
	var out TipoPeca
	err := c.do(ctx, "/api/tipos-peca", RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"nome": nome},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTipoPeca removes a piece type
func (c *Client) DeleteTipoPeca(ctx context.Context, id int) error {
	return c.do(ctx, fmt.Sprintf("/api/tipos-peca/%d", id), RequestOptions{Method: http.MethodDelete}, nil)
}

// ListPecas returns the pieces matching filter
func (c *Client) ListPecas(ctx context.Context, filter PecaFilter) ([]Peca, error) {
	var out []Peca
	if err := c.do(ctx, "/api/pecas", RequestOptions{Params: filter.Params()}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPeca returns one piece including its proof image
func (c *Client) GetPeca(ctx context.Context, id int) (*Peca, error) {
	var out Peca
	if err := c.do(ctx, fmt.Sprintf("/api/pecas/%d", id), RequestOptions{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePeca registers a piece
func (c *Client) CreatePeca(ctx context.Context, in PecaInput) (*Peca, error) {
	var out Peca
	if err := c.do(ctx, "/api/pecas", RequestOptions{Method: http.MethodPost, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePeca applies a partial update to a piece
func (c *Client) UpdatePeca(ctx context.Context, id int, patch PecaPatch) (*Peca, error) {
	var out Peca
	err := c.do(ctx, fmt.Sprintf("/api/pecas/%d", id), RequestOptions{Method: http.MethodPut, Body: patch}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePeca removes a piece
func (c *Client) DeletePeca(ctx context.Context, id int) error {
	return c.do(ctx, fmt.Sprintf("/api/pecas/%d", id), RequestOptions{Method: http.MethodDelete}, nil)
}

// RelatorioPecas returns the aggregated report for filter
func (c *Client) RelatorioPecas(ctx context.Context, filter RelatorioFilter) (*Relatorio, error) {
	var out Relatorio
	if err := c.do(ctx, "/api/relatorios/pecas", RequestOptions{Params: filter.Params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsuarios returns all user accounts
func (c *Client) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	var out []Usuario
	if err := c.do(ctx, "/api/usuarios", RequestOptions{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUsuario creates a user account
func (c *Client) CreateUsuario(ctx context.Context, in UsuarioInput) (*Usuario, error) {
	var out Usuario
	if err := c.do(ctx, "/api/usuarios", RequestOptions{Method: http.MethodPost, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUsuario removes a user account
func (c *Client) DeleteUsuario(ctx context.Context, id int) error {
	return c.do(ctx, fmt.Sprintf("/api/usuarios/%d", id), RequestOptions{Method: http.MethodDelete}, nil)
}
