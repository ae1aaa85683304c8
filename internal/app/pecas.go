// ABOUTME: Piece operations: list, fetch, register, edit, and delete
// ABOUTME: Each mutation runs its permission check and local validation first

package app

import (
	"context"
	"slices"
	"strings"

	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/permissions"
)

// PecaDraft is a piece being registered, with its proof image as raw bytes
type PecaDraft struct {
	Cliente        string
	Secretaria     string
	TipoPeca       string
	NomePeca       string
	DataCriacao    string
	DataVeiculacao string
	Observacao     string
	Proof          []byte
}

// ListPecas returns pieces matching filter, newest registration first.
// Without a session it returns an empty list.
func (a *App) ListPecas(ctx context.Context, filter client.PecaFilter) ([]client.Peca, error) {
	if !a.store.Snapshot().Authenticated() {
		return nil, nil
	}
	pecas, err := a.api.ListPecas(ctx, filter)
	if err != nil {
		return nil, a.fail(err, MsgPecasLoadFail)
	}
	slices.SortStableFunc(pecas, func(x, y client.Peca) int {
		return y.RegisteredAt().Compare(x.RegisteredAt())
	})
	return pecas, nil
}

// GetPeca returns one piece including its proof
func (a *App) GetPeca(ctx context.Context, id int) (*client.Peca, error) {
	peca, err := a.api.GetPeca(ctx, id)
	if err != nil {
		return nil, a.fail(err, MsgPecaLoadFail)
	}
	return peca, nil
}

// CreatePeca registers a piece
func (a *App) CreatePeca(ctx context.Context, d PecaDraft) (*client.Peca, error) {
	if err := a.allow(permissions.ActionInsert); err != nil {
		return nil, err
	}
	for _, v := range []string{d.Cliente, d.Secretaria, d.TipoPeca, d.NomePeca, d.DataCriacao} {
		if strings.TrimSpace(v) == "" {
			return nil, a.invalid(MsgRequiredFields)
		}
	}
	proof, err := EncodeProof(d.Proof)
	if err != nil {
		return nil, a.invalid(err.Error())
	}

	peca, err := a.api.CreatePeca(ctx, client.PecaInput{
		Cliente:        d.Cliente,
		Secretaria:     d.Secretaria,
		TipoPeca:       d.TipoPeca,
		NomePeca:       strings.TrimSpace(d.NomePeca),
		DataCriacao:    d.DataCriacao,
		DataVeiculacao: d.DataVeiculacao,
		Observacao:     d.Observacao,
		Comprovacao:    proof,
	})
	if err != nil {
		return nil, a.fail(err, MsgPecaCreateFail)
	}
	a.success(MsgPecaCreated)
	return peca, nil
}

// UpdatePeca applies patch to a piece. A non-nil proof replaces the stored image.
func (a *App) UpdatePeca(ctx context.Context, id int, patch client.PecaPatch, proof []byte) (*client.Peca, error) {
	if err := a.allow(permissions.ActionEdit); err != nil {
		return nil, err
	}
	if proof != nil {
		encoded, err := EncodeProof(proof)
		if err != nil {
			return nil, a.invalid(err.Error())
		}
		patch.Comprovacao = &encoded
	}
	if patch.Empty() {
		return nil, a.invalid(MsgNothingToUpdate)
	}

	peca, err := a.api.UpdatePeca(ctx, id, patch)
	if err != nil {
		return nil, a.fail(err, MsgPecaUpdateFail)
	}
	a.success(MsgPecaUpdated)
	return peca, nil
}

// DeletePeca removes a piece
func (a *App) DeletePeca(ctx context.Context, id int) error {
	if err := a.allow(permissions.ActionDelete); err != nil {
		return err
	}
	if err := a.api.DeletePeca(ctx, id); err != nil {
		return a.fail(err, MsgPecaDeleteFail)
	}
	a.success(MsgPecaDeleted)
	return nil
}
