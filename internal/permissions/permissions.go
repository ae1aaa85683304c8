// ABOUTME: Role capability table and pre-flight permission decisions
// ABOUTME: Maps a closed set of actions to role flags; unknown roles fail closed

package permissions

import "fmt"

// Role is the backend role name carried on the user record
type Role string

const (
	RoleMaster      Role = "master"
	RoleSocialMedia Role = "social_media"
	RoleFinanceiro  Role = "financeiro"
)

// RolePermission describes what a role may do
type RolePermission struct {
	Name        string
	Description string
	CanInsert   bool
	CanEdit     bool
	CanDelete   bool
	CanReport   bool
	CanAdmin    bool
	CanConfig   bool
}

var table = map[Role]RolePermission{
	RoleMaster: {
		Name:        "Master",
		Description: "Acesso total ao sistema, relatórios e gráficos",
		CanInsert:   true,
		CanEdit:     true,
		CanDelete:   true,
		CanReport:   true,
		CanAdmin:    true,
		CanConfig:   true,
	},
	RoleSocialMedia: {
		Name:        "Social Media",
		Description: "Pode inserir material e editar nomes e datas",
		CanInsert:   true,
		CanEdit:     true,
	},
	RoleFinanceiro: {
		Name:        "Financeiro",
		Description: "Pode editar o que está feito e gerar relatório",
		CanEdit:     true,
		CanReport:   true,
	},
}

// Lookup returns the capability set for a role.
// The boolean is false for roles that are not configured.
func Lookup(role Role) (RolePermission, bool) {
	p, ok := table[role]
	return p, ok
}

// Roles returns the configured roles in display order
func Roles() []Role {
	return []Role{RoleMaster, RoleSocialMedia, RoleFinanceiro}
}

// Label returns the display name of a role, falling back to the raw value
func Label(role Role) string {
	if p, ok := table[role]; ok {
		return p.Name
	}
	return string(role)
}

// Action is a gated user action
type Action int

const (
	ActionInsert Action = iota
	ActionEdit
	ActionDelete
	ActionReport
	ActionConfig
	ActionAdmin
)

// String returns the string representation of an Action
func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionReport:
		return "report"
	case ActionConfig:
		return "config"
	case ActionAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Allows reports whether the capability set grants the action.
// Actions outside the enum are never allowed.
func (p RolePermission) Allows(a Action) bool {
	switch a {
	case ActionInsert:
		return p.CanInsert
	case ActionEdit:
		return p.CanEdit
	case ActionDelete:
		return p.CanDelete
	case ActionReport:
		return p.CanReport
	case ActionConfig:
		return p.CanConfig
	case ActionAdmin:
		return p.CanAdmin
	}
	return false
}

// Intent tells the presentation layer what to do with a denial
type Intent int

const (
	IntentNone Intent = iota
	IntentToast
	IntentLogin
)

// User-facing denial messages
const (
	MsgLoginRequired = "Você precisa estar logado para realizar esta ação!"
	MsgInvalidRole   = "Permissões do usuário são inválidas."
)

var denials = map[Action]string{
	ActionInsert: "Você não tem permissão para inserir peças!",
	ActionEdit:   "Você não tem permissão para editar peças!",
	ActionDelete: "Você não tem permissão para deletar peças!",
	ActionReport: "Você não tem permissão para gerar relatórios!",
	ActionConfig: "Você não tem permissão para alterar as configurações!",
	ActionAdmin:  "Você não tem permissão para acessar a administração!",
}

// DenialMessage returns the message shown when a role lacks the action
func DenialMessage(a Action) string {
	if msg, ok := denials[a]; ok {
		return msg
	}
	return fmt.Sprintf("Ação não permitida: %s", a)
}

// Decision is the outcome of a permission check
type Decision struct {
	Allowed bool
	Intent  Intent
	Message string
}

// Decide evaluates an action for the given role. It has no side effects.
func Decide(role Role, authenticated bool, a Action) Decision {
	if !authenticated {
		return Decision{Intent: IntentLogin, Message: MsgLoginRequired}
	}

	perm, ok := Lookup(role)
	if !ok {
		return Decision{Intent: IntentToast, Message: MsgInvalidRole}
	}

	if !perm.Allows(a) {
		return Decision{Intent: IntentToast, Message: DenialMessage(a)}
	}

	return Decision{Allowed: true}
}
