// ABOUTME: Request and response types for the piece-tracking backend
// ABOUTME: Mirrors the JSON field names of the REST contract

package client

import "time"

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// HealthResponse represents the /health endpoint response
type HealthResponse struct {
	Status       string `json:"status"`
	AuthDisabled *bool  `json:"authDisabled,omitempty"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthUser is the user record returned by a successful login
type AuthUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Nome     string `json:"nome"`
	Role     string `json:"role"`
}

// LoginResponse is the token issued by POST /auth/login
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        AuthUser `json:"user"`
}

// Cliente is a client organization (a municipality)
type Cliente struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// Secretaria is a department belonging to a client
type Secretaria struct {
	ID        int    `json:"id"`
	Nome      string `json:"nome"`
	ClienteID int    `json:"clienteId,omitempty"`
}

// TipoPeca is a piece type
type TipoPeca struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// Peca is a registered piece as returned by the backend
type Peca struct {
	ID             int    `json:"id"`
	Cliente        string `json:"cliente"`
	Secretaria     string `json:"secretaria"`
	TipoPeca       string `json:"tipoPeca"`
	NomePeca       string `json:"nomePeca"`
	DataCriacao    string `json:"dataCriacao"`
	DataVeiculacao string `json:"dataVeiculacao,omitempty"`
	Observacao     string `json:"observacao,omitempty"`
	Comprovacao    string `json:"comprovacao,omitempty"`
	HasComprovacao bool   `json:"hasComprovacao,omitempty"`
	DataCadastro   string `json:"dataCadastro,omitempty"`
}

// RegisteredAt parses DataCadastro; the zero time is returned when it is
// missing or malformed.
func (p Peca) RegisteredAt() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.Parse(layout, p.DataCadastro); err == nil {
			return t
		}
	}
	return time.Time{}
}

// PecaInput is the body of POST /api/pecas
type PecaInput struct {
	Cliente        string `json:"cliente"`
	Secretaria     string `json:"secretaria"`
	TipoPeca       string `json:"tipoPeca"`
	NomePeca       string `json:"nomePeca"`
	DataCriacao    string `json:"dataCriacao"`
	DataVeiculacao string `json:"dataVeiculacao,omitempty"`
	Observacao     string `json:"observacao,omitempty"`
	Comprovacao    string `json:"comprovacao"`
}

// PecaPatch is the body of PUT /api/pecas/{id}; nil fields are left unchanged
type PecaPatch struct {
	Cliente        *string `json:"cliente,omitempty"`
	Secretaria     *string `json:"secretaria,omitempty"`
	TipoPeca       *string `json:"tipoPeca,omitempty"`
	NomePeca       *string `json:"nomePeca,omitempty"`
	DataCriacao    *string `json:"dataCriacao,omitempty"`
	DataVeiculacao *string `json:"dataVeiculacao,omitempty"`
	Observacao     *string `json:"observacao,omitempty"`
	Comprovacao    *string `json:"comprovacao,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p PecaPatch) Empty() bool {
	return p.Cliente == nil && p.Secretaria == nil && p.TipoPeca == nil && p.NomePeca == nil &&
		p.DataCriacao == nil && p.DataVeiculacao == nil && p.Observacao == nil && p.Comprovacao == nil
}

// PecaFilter holds the optional query filters of GET /api/pecas
type PecaFilter struct {
	Cliente    string
	Secretaria string
	TipoPeca   string
	DataInicio string
	DataFim    string
	Page       int
	PageSize   int
}

// Params encodes the filter as query parameters
func (f PecaFilter) Params() Params {
	return append(Query(
		"cliente", f.Cliente,
		"secretaria", f.Secretaria,
		"tipoPeca", f.TipoPeca,
		"dataInicio", f.DataInicio,
		"dataFim", f.DataFim,
	), positive("page", f.Page), positive("pageSize", f.PageSize))
}

// RelatorioFilter holds the query filters of GET /api/relatorios/pecas
type RelatorioFilter struct {
	Cliente    string
	Secretaria string
	DataInicio string
	DataFim    string
}

// Params encodes the filter as query parameters
func (f RelatorioFilter) Params() Params {
	return Query(
		"cliente", f.Cliente,
		"secretaria", f.Secretaria,
		"dataInicio", f.DataInicio,
		"dataFim", f.DataFim,
	)
}

// RelatorioInfo echoes the filters a report was generated with
type RelatorioInfo struct {
	Cliente    string `json:"cliente,omitempty"`
	Secretaria string `json:"secretaria,omitempty"`
	DataInicio string `json:"dataInicio"`
	DataFim    string `json:"dataFim"`
}

// RelatorioStats summarizes a report
type RelatorioStats struct {
	TotalPecas       int `json:"totalPecas"`
	TotalSecretarias int `json:"totalSecretarias"`
}

// RelatorioLinha is one aggregated report line
type RelatorioLinha struct {
	Secretaria     string `json:"secretaria"`
	TipoPeca       string `json:"tipoPeca"`
	NomePeca       string `json:"nomePeca"`
	DataCriacao    string `json:"dataCriacao"`
	DataVeiculacao string `json:"dataVeiculacao,omitempty"`
	Quantidade     int    `json:"quantidade"`
}

// Relatorio is the response of GET /api/relatorios/pecas
type Relatorio struct {
	Info   RelatorioInfo    `json:"info"`
	Stats  RelatorioStats   `json:"stats"`
	Linhas []RelatorioLinha `json:"linhas"`
}

// Usuario is a user account as listed by the admin endpoints
type Usuario struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Nome      string `json:"nome"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// UsuarioInput is the body of POST /api/usuarios
type UsuarioInput struct {
	Username string `json:"username"`
	Nome     string `json:"nome"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}
