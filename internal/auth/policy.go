package auth

// Action is the closed set of operations the policy decides on.
type Action string

const (
	ActionReadPlan    Action = "plan:read"
	ActionCreatePlan  Action = "plan:create"
	ActionEditPlan    Action = "plan:edit"
	ActionSubmitPlan  Action = "plan:enviar_revision"
	ActionObservePlan Action = "plan:agregar_observacion"
	ActionSetEstado   Action = "plan:cambiar_estado"
	ActionDeletePlan  Action = "plan:delete"

	ActionWriteSeguimiento Action = "seguimiento:write"
	ActionWriteQualityNote Action = "seguimiento:observacion_calidad"

	ActionManageUsers Action = "users:manage"

	ActionReadReporte   Action = "reporte:read"
	ActionCreateReporte Action = "reporte:create"
)

// Resource carries the ownership attribute of the target, when one
// exists. The zero value is used for actions with no target resource.
type Resource struct {
	OwnerID int64
}

// Policy is a pure allow/deny decision over identity, action and
// resource ownership. Default is deny: any action or role outside the
// matrix below falls through to false.
type Policy struct {
	// Bypass mirrors the auth-disable flag: every check passes while the
	// resolver hands out the guest admin identity.
	Bypass bool
}

func NewPolicy(bypass bool) Policy {
	return Policy{Bypass: bypass}
}

func (p Policy) Allow(id *Identity, action Action, res Resource) bool {
	if p.Bypass {
		return true
	}
	if id == nil {
		return false
	}

	switch action {
	case ActionReadPlan:
		switch id.Role {
		case RoleAdmin, RoleAuditor:
			return true
		case RoleEntidad:
			return res.OwnerID == id.UserID
		case RoleCiudadano:
			return false
		}

	case ActionCreatePlan:
		return id.Role == RoleAdmin || id.Role == RoleEntidad

	case ActionEditPlan, ActionSubmitPlan, ActionDeletePlan:
		switch id.Role {
		case RoleAdmin:
			return true
		case RoleEntidad:
			return res.OwnerID == id.UserID
		case RoleAuditor, RoleCiudadano:
			return false
		}

	case ActionObservePlan, ActionSetEstado:
		return id.Role == RoleAdmin || id.Role == RoleAuditor

	case ActionWriteSeguimiento:
		return id.Role == RoleAdmin || id.Role == RoleEntidad || id.Role == RoleAuditor

	case ActionWriteQualityNote:
		return id.Role == RoleAdmin || id.Role == RoleAuditor

	case ActionManageUsers:
		return id.Role == RoleAdmin

	case ActionReadReporte:
		return id.Role.Valid()

	case ActionCreateReporte:
		return id.Role == RoleAdmin || id.Role == RoleAuditor
	}

	return false
}
