package domain

// SystemActorID identifica alterações feitas por rotinas automáticas
const SystemActorID = "system"

// Actor é quem executa uma operação: um usuário autenticado ou o sistema
type Actor struct {
	UserID   string `json:"userId"`
	AgencyID string `json:"agencyId"`
	Role     Role   `json:"role"`
	Name     string `json:"name,omitempty"`
}

var SystemActor = Actor{UserID: SystemActorID, Name: "Sistema"}

func (a Actor) IsSystem() bool {
	return a.UserID == SystemActorID
}

// CanManage indica se o ator pode alterar um registro pertencente a ownerID
func (a Actor) CanManage(ownerID string) bool {
	if a.IsSystem() || a.Role.HasPermission(PermissionProposalManageAll) {
		return true
	}
	return a.UserID == ownerID
}
