// ABOUTME: In-memory stand-in for the piece-tracking backend used by tests
// ABOUTME: Serves the REST contract over httptest with bearer-token auth and an auth-disabled mode

package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/markalston/gestao-pecas/internal/client"
)

type account struct {
	client.Usuario
	password string
}

// Server is a fake backend
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	authDisabled bool
	healthDown   bool
	rejectAll    bool
	users        map[int]*account
	tokens       map[string]int
	clientes     []client.Cliente
	secretarias  []client.Secretaria
	tipos        []client.TipoPeca
	pecas        []client.Peca
	nextID       int
	requests     []string
}

// New starts a fake backend seeded with the default administrator
// (id 1, admin/admin). It is closed when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		users:  map[int]*account{},
		tokens: map[string]int{},
		nextID: 100,
	}
	s.users[1] = &account{Usuario: client.Usuario{ID: 1, Username: "admin", Nome: "Administrador", Role: "master", IsActive: true}, password: "admin"}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("GET /api/clientes", s.authed(s.listClientes))
	mux.HandleFunc("POST /api/clientes", s.authed(s.createCliente))
	mux.HandleFunc("DELETE /api/clientes/{id}", s.authed(s.deleteCliente))
	mux.HandleFunc("GET /api/clientes/{id}/secretarias", s.authed(s.listSecretarias))
	mux.HandleFunc("POST /api/secretarias", s.authed(s.createSecretaria))
	mux.HandleFunc("DELETE /api/secretarias/{id}", s.authed(s.deleteSecretaria))
	mux.HandleFunc("GET /api/tipos-peca", s.authed(s.listTipos))
	mux.HandleFunc("POST /api/tipos-peca", s.authed(s.createTipo))
	mux.HandleFunc("DELETE /api/tipos-peca/{id}", s.authed(s.deleteTipo))
	mux.HandleFunc("GET /api/pecas", s.authed(s.listPecas))
	mux.HandleFunc("GET /api/pecas/{id}", s.authed(s.getPeca))
	mux.HandleFunc("POST /api/pecas", s.authed(s.createPeca))
	mux.HandleFunc("PUT /api/pecas/{id}", s.authed(s.updatePeca))
	mux.HandleFunc("DELETE /api/pecas/{id}", s.authed(s.deletePeca))
	mux.HandleFunc("GET /api/relatorios/pecas", s.authed(s.relatorio))
	mux.HandleFunc("GET /api/usuarios", s.authed(s.listUsuarios))
	mux.HandleFunc("POST /api/usuarios", s.authed(s.createUsuario))
	mux.HandleFunc("DELETE /api/usuarios/{id}", s.authed(s.deleteUsuario))

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// SetAuthDisabled toggles the backend's test mode
func (s *Server) SetAuthDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authDisabled = disabled
}

// SetHealthDown makes /health fail with 503
func (s *Server) SetHealthDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthDown = down
}

// RejectAllTokens makes every authenticated call return 401
func (s *Server) RejectAllTokens(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectAll = reject
}

// AddUser creates an account and returns its id
func (s *Server) AddUser(username, password, role string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.users[id] = &account{Usuario: client.Usuario{ID: id, Username: username, Nome: username, Role: role, IsActive: true}, password: password}
	return id
}

// IssueToken returns a valid token for the user with id
func (s *Server) IssueToken(id int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = id
	return token
}

// SeedCliente adds a client with secretariats and returns the client id
func (s *Server) SeedCliente(nome string, secretarias ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.clientes = append(s.clientes, client.Cliente{ID: id, Nome: nome})
	for _, sec := range secretarias {
		s.secretarias = append(s.secretarias, client.Secretaria{ID: s.id(), Nome: sec, ClienteID: id})
	}
	return id
}

// SeedTipo adds a piece type
func (s *Server) SeedTipo(nome string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.tipos = append(s.tipos, client.TipoPeca{ID: id, Nome: nome})
	return id
}

// SeedPeca stores a piece as-is and returns its id
func (s *Server) SeedPeca(p client.Peca) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	if p.DataCadastro == "" {
		p.DataCadastro = time.Now().UTC().Format("2006-01-02T15:04:05")
	}
	s.pecas = append(s.pecas, p)
	return p.ID
}

// Pecas returns a copy of the stored pieces
func (s *Server) Pecas() []client.Peca {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.pecas)
}

// Requests returns "METHOD /path" for every request received
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// CountRequests returns how many requests matched "METHOD /path"
func (s *Server) CountRequests(line string) int {
	n := 0
	for _, r := range s.Requests() {
		if r == line {
			n++
		}
	}
	return n
}

func (s *Server) id() int {
	s.nextID++
	return s.nextID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(r.PathValue("id"))
	return id
}

// authed enforces the bearer token unless auth is disabled
func (s *Server) authed(next func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.authDisabled {
			next(w, r, s.users[1])
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		id, known := s.tokens[token]
		if !ok || !known || s.rejectAll {
			detail(w, http.StatusUnauthorized, "Não autenticado.")
			return
		}
		next(w, r, s.users[id])
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.healthDown {
		detail(w, http.StatusServiceUnavailable, "indisponível")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "authDisabled": s.authDisabled})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req client.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.Username == req.Username && u.password == req.Password {
			if !u.IsActive {
				detail(w, http.StatusForbidden, "Usuário inativo.")
				return
			}
			token := uuid.NewString()
			s.tokens[token] = id
			writeJSON(w, http.StatusOK, client.LoginResponse{
				AccessToken: token,
				TokenType:   "bearer",
				User:        client.AuthUser{ID: id, Username: u.Username, Nome: u.Nome, Role: u.Role},
			})
			return
		}
	}
	detail(w, http.StatusUnauthorized, "Usuário ou senha inválidos.")
}

func (s *Server) listClientes(w http.ResponseWriter, r *http.Request, _ *account) {
	writeJSON(w, http.StatusOK, s.clientes)
}

func (s *Server) createCliente(w http.ResponseWriter, r *http.Request, _ *account) {
	var c client.Cliente
	json.NewDecoder(r.Body).Decode(&c)
	for _, existing := range s.clientes {
		if strings.EqualFold(existing.Nome, c.Nome) {
			detail(w, http.StatusBadRequest, "Cliente já cadastrado.")
			return
		}
	}
	c.ID = s.id()
	s.clientes = append(s.clientes, c)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) deleteCliente(w http.ResponseWriter, r *http.Request, _ *account) {
	id := pathID(r)
	before := len(s.clientes)
	s.clientes = slices.DeleteFunc(s.clientes, func(c client.Cliente) bool { return c.ID == id })
	if len(s.clientes) == before {
		detail(w, http.StatusNotFound, "Cliente não encontrado.")
		return
	}
	s.secretarias = slices.DeleteFunc(s.secretarias, func(sec client.Secretaria) bool { return sec.ClienteID == id })
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSecretarias(w http.ResponseWriter, r *http.Request, _ *account) {
	id := pathID(r)
	out := []client.Secretaria{}
	for _, sec := range s.secretarias {
		if sec.ClienteID == id {
			out = append(out, sec)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createSecretaria(w http.ResponseWriter, r *http.Request, _ *account) {
	var sec client.Secretaria
	json.NewDecoder(r.Body).Decode(&sec)
	sec.ID = s.id()
	s.secretarias = append(s.secretarias, sec)
	writeJSON(w, http.StatusCreated, sec)
}

func (s *Server) deleteSecretaria(w http.ResponseWriter, r *http.Request, _ *account) {
	id := pathID(r)
	s.secretarias = slices.DeleteFunc(s.secretarias, func(sec client.Secretaria) bool { return sec.ID == id })
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTipos(w http.ResponseWriter, r *http.Request, _ *account) {
	writeJSON(w, http.StatusOK, s.tipos)
}

func (s *Server) createTipo(w http.ResponseWriter, r *http.Request, _ *account) {
	var t client.TipoPeca
	json.NewDecoder(r.Body).Decode(&t)
	t.ID = s.id()
	s.tipos = append(s.tipos, t)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) deleteTipo(w http.ResponseWriter, r *http.Request, _ *account) {
	id := pathID(r)
	s.tipos = slices.DeleteFunc(s.tipos, func(t client.TipoPeca) bool { return t.ID == id })
	w.WriteHeader(http.StatusNoContent)
}

func inRange(date, start, end string) bool {
	if start != "" && date < start {
		return false
	}
	if end != "" && date > end {
		return false
	}
	return true
}

func (s *Server) listPecas(w http.ResponseWriter, r *http.Request, _ *account) {
	q := r.URL.Query()
	out := []client.Peca{}
	for _, p := range s.pecas {
		if (q.Get("cliente") != "" && !strings.EqualFold(p.Cliente, q.Get("cliente"))) ||
			(q.Get("secretaria") != "" && !strings.EqualFold(p.Secretaria, q.Get("secretaria"))) ||
			(q.Get("tipoPeca") != "" && !strings.EqualFold(p.TipoPeca, q.Get("tipoPeca"))) ||
			!inRange(p.DataCriacao, q.Get("dataInicio"), q.Get("dataFim")) {
			continue
		}
		p.HasComprovacao = p.Comprovacao != ""
		p.Comprovacao = ""
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) findPeca(id int) int {
	return slices.IndexFunc(s.pecas, func(p client.Peca) bool { return p.ID == id })
}

func (s *Server) getPeca(w http.ResponseWriter, r *http.Request, _ *account) {
	i := s.findPeca(pathID(r))
	if i < 0 {
		detail(w, http.StatusNotFound, "Peça não encontrada.")
		return
	}
	writeJSON(w, http.StatusOK, s.pecas[i])
}

func (s *Server) createPeca(w http.ResponseWriter, r *http.Request, _ *account) {
	var in client.PecaInput
	json.NewDecoder(r.Body).Decode(&in)
	if !slices.ContainsFunc(s.clientes, func(c client.Cliente) bool { return strings.EqualFold(c.Nome, in.Cliente) }) {
		detail(w, http.StatusBadRequest, fmt.Sprintf("Cliente '%s' não encontrado.", in.Cliente))
		return
	}
	p := client.Peca{
		ID:             s.id(),
		Cliente:        in.Cliente,
		Secretaria:     in.Secretaria,
		TipoPeca:       in.TipoPeca,
		NomePeca:       in.NomePeca,
		DataCriacao:    in.DataCriacao,
		DataVeiculacao: in.DataVeiculacao,
		Observacao:     in.Observacao,
		Comprovacao:    in.Comprovacao,
		HasComprovacao: in.Comprovacao != "",
		DataCadastro:   time.Now().UTC().Format("2006-01-02T15:04:05.000000"),
	}
	s.pecas = append(s.pecas, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updatePeca(w http.ResponseWriter, r *http.Request, _ *account) {
	i := s.findPeca(pathID(r))
	if i < 0 {
		detail(w, http.StatusNotFound, "Peça não encontrada.")
		return
	}
	var patch client.PecaPatch
	json.NewDecoder(r.Body).Decode(&patch)
	p := &s.pecas[i]
	for dst, src := range map[*string]*string{
		&p.Cliente:        patch.Cliente,
		&p.Secretaria:     patch.Secretaria,
		&p.TipoPeca:       patch.TipoPeca,
		&p.NomePeca:       patch.NomePeca,
		&p.DataCriacao:    patch.DataCriacao,
		&p.DataVeiculacao: patch.DataVeiculacao,
		&p.Observacao:     patch.Observacao,
		&p.Comprovacao:    patch.Comprovacao,
	} {
		if src != nil {
			*dst = *src
		}
	}
	writeJSON(w, http.StatusOK, *p)
}

func (s *Server) deletePeca(w http.ResponseWriter, r *http.Request, _ *account) {
	i := s.findPeca(pathID(r))
	if i < 0 {
		detail(w, http.StatusNotFound, "Peça não encontrada.")
		return
	}
	s.pecas = slices.Delete(s.pecas, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) relatorio(w http.ResponseWriter, r *http.Request, _ *account) {
	q := r.URL.Query()
	rel := client.Relatorio{
		Info: client.RelatorioInfo{
			Cliente:    q.Get("cliente"),
			Secretaria: q.Get("secretaria"),
			DataInicio: q.Get("dataInicio"),
			DataFim:    q.Get("dataFim"),
		},
		Linhas: []client.RelatorioLinha{},
	}
	index := map[string]int{}
	secretarias := map[string]bool{}
	for _, p := range s.pecas {
		if (q.Get("cliente") != "" && !strings.EqualFold(p.Cliente, q.Get("cliente"))) ||
			(q.Get("secretaria") != "" && !strings.EqualFold(p.Secretaria, q.Get("secretaria"))) ||
			!inRange(p.DataCriacao, q.Get("dataInicio"), q.Get("dataFim")) {
			continue
		}
		key := p.Secretaria + "|" + p.TipoPeca + "|" + p.NomePeca
		i, ok := index[key]
		if !ok {
			i = len(rel.Linhas)
			index[key] = i
			rel.Linhas = append(rel.Linhas, client.RelatorioLinha{
				Secretaria:     p.Secretaria,
				TipoPeca:       p.TipoPeca,
				NomePeca:       p.NomePeca,
				DataCriacao:    p.DataCriacao,
				DataVeiculacao: p.DataVeiculacao,
			})
		}
		rel.Linhas[i].Quantidade++
		rel.Stats.TotalPecas++
		secretarias[p.Secretaria] = true
	}
	rel.Stats.TotalSecretarias = len(secretarias)
	writeJSON(w, http.StatusOK, rel)
}

func (s *Server) listUsuarios(w http.ResponseWriter, r *http.Request, caller *account) {
	if caller.Role != "master" {
		detail(w, http.StatusForbidden, "Permissão negada.")
		return
	}
	out := []client.Usuario{}
	for _, u := range s.users {
		out = append(out, u.Usuario)
	}
	slices.SortFunc(out, func(a, b client.Usuario) int { return a.ID - b.ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createUsuario(w http.ResponseWriter, r *http.Request, caller *account) {
	if caller.Role != "master" {
		detail(w, http.StatusForbidden, "Permissão negada.")
		return
	}
	var in client.UsuarioInput
	json.NewDecoder(r.Body).Decode(&in)
	for _, u := range s.users {
		if u.Username == in.Username {
			detail(w, http.StatusBadRequest, "Usuário já existe.")
			return
		}
	}
	id := s.id()
	s.users[id] = &account{
		Usuario:  client.Usuario{ID: id, Username: in.Username, Nome: in.Nome, Role: in.Role, IsActive: in.IsActive},
		password: in.Password,
	}
	writeJSON(w, http.StatusCreated, s.users[id].Usuario)
}

func (s *Server) deleteUsuario(w http.ResponseWriter, r *http.Request, caller *account) {
	if caller.Role != "master" {
		detail(w, http.StatusForbidden, "Permissão negada.")
		return
	}
	id := pathID(r)
	if _, ok := s.users[id]; !ok {
		detail(w, http.StatusNotFound, "Usuário não encontrado.")
		return
	}
	delete(s.users, id)
	w.WriteHeader(http.StatusNoContent)
}
