// ABOUTME: In-memory caches of clients, secretariats, and piece types
// ABOUTME: Rebuilt wholesale on every load and cleared on logout

package refdata

import (
	"context"
	"fmt"
	"sync"

	"github.com/markalston/gestao-pecas/internal/client"
	"golang.org/x/sync/errgroup"
)

// Source is the backend surface the cache loads from
type Source interface {
	ListClientes(ctx context.Context) ([]client.Cliente, error)
	ListSecretarias(ctx context.Context, clienteID int) ([]client.Secretaria, error)
	ListTiposPeca(ctx context.Context) ([]client.TipoPeca, error)
}

// TokenSource reports whether a session exists
type TokenSource interface {
	Token() string
}

type snapshot struct {
	clientes      []string
	clienteIDs    map[string]int
	secretarias   map[string][]string
	secretariaIDs map[string]int
	tipos         []string
	tipoIDs       map[string]int
}

func emptySnapshot() snapshot {
	return snapshot{
		clienteIDs:    map[string]int{},
		secretarias:   map[string][]string{},
		secretariaIDs: map[string]int{},
		tipoIDs:       map[string]int{},
	}
}

// Cache holds the reference data used to fill forms and resolve ids
type Cache struct {
	source Source
	tokens TokenSource

	mu   sync.RWMutex
	data snapshot
}

// New creates an empty cache
func New(source Source, tokens TokenSource) *Cache {
	return &Cache{source: source, tokens: tokens, data: emptySnapshot()}
}

// SecretariaKey builds the lookup key of a secretariat within a client
func SecretariaKey(cliente, secretaria string) string {
	return cliente + "::" + secretaria
}

// Load fetches clients, the secretariats of every client concurrently, and
// piece types, then swaps the whole snapshot in. It is a no-op without a session.
func (c *Cache) Load(ctx context.Context) error {
	if c.tokens != nil && c.tokens.Token() == "" {
		return nil
	}

	clientes, err := c.source.ListClientes(ctx)
	if err != nil {
		return err
	}

	next := emptySnapshot()
	for _, cl := range clientes {
		next.clientes = append(next.clientes, cl.Nome)
		next.clienteIDs[cl.Nome] = cl.ID
	}

	perClient := make([][]client.Secretaria, len(clientes))
	g, gctx := errgroup.WithContext(ctx)
	for i, cl := range clientes {
		g.Go(func() error {
			secs, err := c.source.ListSecretarias(gctx, cl.ID)
			if err != nil {
				return err
			}
			perClient[i] = secs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, cl := range clientes {
		names := make([]string, 0, len(perClient[i]))
		for _, s := range perClient[i] {
			names = append(names, s.Nome)
			next.secretariaIDs[SecretariaKey(cl.Nome, s.Nome)] = s.ID
		}
		next.secretarias[cl.Nome] = names
	}

	tipos, err := c.source.ListTiposPeca(ctx)
	if err != nil {
		return err
	}
	for _, t := range tipos {
		next.tipos = append(next.tipos, t.Nome)
		next.tipoIDs[t.Nome] = t.ID
	}

	c.mu.Lock()
	c.data = next
	c.mu.Unlock()
	return nil
}

// Clear drops every cached entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = emptySnapshot()
}

// Clientes returns client names in backend order
func (c *Cache) Clientes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.data.clientes...)
}

// Secretarias returns the secretariat names of a client
func (c *Cache) Secretarias(cliente string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.data.secretarias[cliente]...)
}

// AllSecretarias returns every secretariat name across clients, without duplicates
func (c *Cache) AllSecretarias() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, cl := range c.data.clientes {
		for _, s := range c.data.secretarias[cl] {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// TiposPeca returns piece type names
func (c *Cache) TiposPeca() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.data.tipos...)
}

// ClienteID resolves a client name
func (c *Cache) ClienteID(nome string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.data.clienteIDs[nome]
	if !ok {
		return 0, fmt.Errorf("cliente %q não encontrado", nome)
	}
	return id, nil
}

// SecretariaID resolves a secretariat within a client
func (c *Cache) SecretariaID(cliente, secretaria string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.data.secretariaIDs[SecretariaKey(cliente, secretaria)]
	if !ok {
		return 0, fmt.Errorf("secretaria %q não encontrada para %q", secretaria, cliente)
	}
	return id, nil
}

// TipoPecaID resolves a piece type name
func (c *Cache) TipoPecaID(nome string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.data.tipoIDs[nome]
	if !ok {
		return 0, fmt.Errorf("tipo de peça %q não encontrado", nome)
	}
	return id, nil
}

// HasCliente reports whether a client name is known
func (c *Cache) HasCliente(nome string) bool {
	_, err := c.ClienteID(nome)
	return err == nil
}

// HasSecretaria reports whether a secretariat is known for a client
func (c *Cache) HasSecretaria(cliente, secretaria string) bool {
	_, err := c.SecretariaID(cliente, secretaria)
	return err == nil
}

// HasTipoPeca reports whether a piece type name is known
func (c *Cache) HasTipoPeca(nome string) bool {
	_, err := c.TipoPecaID(nome)
	return err == nil
}
