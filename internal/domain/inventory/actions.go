package inventory

import "github.com/magazyn/magazyn/internal/domain/entity"

// Actions acciones visibles para un nivel de acceso.
type Actions struct {
	View   bool `json:"view"`
	Add    bool `json:"add"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
	Admin  bool `json:"admin"`
}

// ActionsFor mismos umbrales que el control de acceso del servidor.
func ActionsFor(accessLevel int) Actions {
	return Actions{
		View:   accessLevel >= entity.AccessLevelViewer,
		Add:    accessLevel >= entity.AccessLevelEditor,
		Edit:   accessLevel >= entity.AccessLevelEditor,
		Delete: accessLevel >= entity.AccessLevelEditor,
		Admin:  accessLevel >= entity.AccessLevelAdmin,
	}
}
