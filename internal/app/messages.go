// ABOUTME: User-facing messages produced by the application flows
// ABOUTME: Kept together so both front ends and tests share the exact wording

package app

// Session flows
const (
	MsgManualLoginOff = "Modo teste ativo: autenticação manual está desabilitada."
	MsgCredentials    = "Informe usuário e senha!"
	MsgLoginFailed    = "Usuário ou senha incorretos!"
	MsgLoggedOut      = "Você saiu do sistema"
	MsgBootFailed     = "Erro ao carregar dados iniciais."
)

// Pieces
const (
	MsgRequiredFields  = "Preencha todos os campos obrigatórios!"
	MsgProofRequired   = "Por favor, adicione a comprovação (print)!"
	MsgProofTooLarge   = "O arquivo deve ter no máximo 5MB!"
	MsgProofNotImage   = "Por favor, selecione apenas arquivos de imagem!"
	MsgPecaCreated     = "Peça cadastrada com sucesso!"
	MsgPecaCreateFail  = "Erro ao cadastrar peça."
	MsgPecaUpdated     = "Peça atualizada com sucesso!"
	MsgPecaUpdateFail  = "Erro ao atualizar peça."
	MsgNothingToUpdate = "Nenhuma alteração informada."
	MsgPecaDeleted     = "Peça excluída com sucesso!"
	MsgPecaDeleteFail  = "Erro ao excluir peça."
	MsgPecasLoadFail   = "Erro ao carregar peças."
	MsgPecaLoadFail    = "Erro ao carregar peça."
	MsgProofNotFound   = "Comprovação não encontrada."
)

// Reports
const (
	MsgDateRange      = "A data de início não pode ser maior que a data fim!"
	MsgNoResults      = "Nenhuma peça encontrada com os filtros selecionados!"
	MsgReportFail     = "Erro ao gerar relatório."
	MsgReportRequired = "Gere um relatório primeiro antes de exportar!"
	MsgPDFExported    = "Relatório PDF gerado com sucesso!"
)

// Reference data
const (
	MsgClienteName       = "Digite o nome do cliente!"
	MsgClienteExists     = "Cliente já existe!"
	MsgClienteAdded      = "Cliente adicionado com sucesso!"
	MsgClienteAddFail    = "Erro ao adicionar cliente."
	MsgClienteUnknown    = "Não foi possível identificar o cliente selecionado."
	MsgClienteDeleted    = "Cliente excluído com sucesso!"
	MsgClienteDeleteFail = "Erro ao excluir cliente."

	MsgSelectCliente        = "Selecione um cliente!"
	MsgSecretariaName       = "Digite o nome da secretaria!"
	MsgSecretariaExists     = "Secretaria já existe para este cliente!"
	MsgClienteInvalid       = "Cliente inválido."
	MsgSecretariaAdded      = "Secretaria adicionada com sucesso!"
	MsgSecretariaAddFail    = "Erro ao adicionar secretaria."
	MsgSecretariaUnknown    = "Não foi possível localizar a secretaria selecionada."
	MsgSecretariaDeleted    = "Secretaria excluída com sucesso!"
	MsgSecretariaDeleteFail = "Erro ao excluir secretaria."

	MsgTipoName       = "Digite o tipo de peça!"
	MsgTipoExists     = "Tipo de peça já existe!"
	MsgTipoAdded      = "Tipo de peça adicionado com sucesso!"
	MsgTipoAddFail    = "Erro ao adicionar tipo de peça."
	MsgTipoInvalid    = "Tipo de peça inválido."
	MsgTipoDeleted    = "Tipo de peça excluído com sucesso!"
	MsgTipoDeleteFail = "Erro ao excluir tipo de peça."
)

// Users
const (
	MsgUsersLoadFail    = "Erro ao carregar usuários."
	MsgAllFields        = "Preencha todos os campos!"
	MsgInvalidRoleInput = "Selecione uma permissão válida!"
	MsgUserCreated      = "Usuário cadastrado com sucesso!"
	MsgUserCreateFail   = "Erro ao cadastrar usuário."
	MsgDeleteSelf       = "Você não pode deletar seu próprio usuário!"
	MsgDeleteDefault    = "Não é possível deletar o administrador padrão!"
	MsgUserDeleted      = "Usuário excluído com sucesso!"
	MsgUserDeleteFail   = "Erro ao excluir usuário."
)

// DefaultAdminID is the id of the seeded administrator account
const DefaultAdminID = 1

// MaxProofSize is the largest accepted proof image, in bytes
const MaxProofSize = 5 * 1024 * 1024
