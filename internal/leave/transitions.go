package leave

import (
	leaveerrors "pawon-ops/internal/leave/errors"

	"pawon-ops/internal/authz"
)

const (
	StatusPendingManager = "PENDING_MANAGER"
	StatusPendingHR      = "PENDING_HR"
	StatusApproved       = "APPROVED"
	StatusRejected       = "REJECTED"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type transition struct {
	To    string
	Roles []string
}

// transitionTable adalah satu-satunya definisi mesin state cuti:
// status asal x aksi -> status tujuan + role yang berwenang.
// Reject tersedia di kedua tier; approve hanya maju satu langkah.
var transitionTable = map[string]map[string]transition{
	StatusPendingManager: {
		ActionApprove: {To: StatusPendingHR, Roles: []string{authz.RoleRestaurantManager}},
		ActionReject:  {To: StatusRejected, Roles: []string{authz.RoleRestaurantManager, authz.RoleHRManager}},
	},
	StatusPendingHR: {
		ActionApprove: {To: StatusApproved, Roles: []string{authz.RoleHRManager}},
		ActionReject:  {To: StatusRejected, Roles: []string{authz.RoleHRManager}},
	},
}

func IsTerminal(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// ResolveTransition memetakan (status sekarang, aksi, role actor) ke
// status tujuan. Status terminal selalu InvalidState; role salah pada
// status yang sah selalu Forbidden -- tidak pernah diam-diam di-skip.
func ResolveTransition(from, action, role string) (string, error) {
	if IsTerminal(from) {
		return "", leaveerrors.ErrLeaveAlreadyFinal
	}

	actions, ok := transitionTable[from]
	if !ok {
		return "", leaveerrors.ErrInvalidStatusTransition
	}
	tr, ok := actions[action]
	if !ok {
		return "", leaveerrors.ErrInvalidStatusTransition
	}

	for _, r := range tr.Roles {
		if r == role {
			return tr.To, nil
		}
	}
	return "", leaveerrors.ErrNotAuthorizedForState
}

// CanSubmitFor: karyawan boleh mengajukan untuk dirinya sendiri;
// manajer restoran dan HR boleh mengajukan atas nama karyawan lain.
func CanSubmitFor(actor authz.Actor, employeeID string) bool {
	if actor.EmployeeID == employeeID {
		return true
	}
	return actor.Role == authz.RoleRestaurantManager || actor.Role == authz.RoleHRManager
}
