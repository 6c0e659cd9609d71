package service

import "github.com/Freeeeeet/hall_booking/internal/model"

// ScopeFor возвращает предикат очереди заявок, доступной роли:
//
//	faculty     - свои заявки
//	hod         - ожидающие заявки своей кафедры
//	hallmanager - ожидающие заявки своего зала
//
// Остальным ролям очередь недоступна.
func ScopeFor(profile *model.UserProfile) (model.Scope, error) {
	if profile == nil {
		return model.Scope{}, forbiddenError("no profile")
	}

	switch profile.Role {
	case model.RoleFaculty:
		if profile.UID == "" {
			return model.Scope{}, validationError("faculty profile has no uid")
		}
		return model.Scope{FacultyUID: profile.UID}, nil
	case model.RoleHOD:
		if profile.Department == "" {
			return model.Scope{}, validationError("hod profile has no department")
		}
		return model.Scope{
			Department: profile.Department,
			Statuses:   []model.ApprovalStatus{model.ApprovalStatusPending},
		}, nil
	case model.RoleHallManager:
		if profile.Hall == "" {
			return model.Scope{}, validationError("hall manager profile has no hall")
		}
		return model.Scope{
			HallName: profile.Hall,
			Statuses: []model.ApprovalStatus{model.ApprovalStatusPending},
		}, nil
	default:
		return model.Scope{}, forbiddenError("role %q has no booking queue", profile.Role)
	}
}

// HistoryScopeFor возвращает предикат архива, доступного роли
func HistoryScopeFor(profile *model.UserProfile) (model.Scope, error) {
	if profile == nil {
		return model.Scope{}, forbiddenError("no profile")
	}

	terminal := []model.ApprovalStatus{model.ApprovalStatusApproved, model.ApprovalStatusCanceled}

	switch profile.Role {
	case model.RoleFaculty:
		if profile.UID == "" {
			return model.Scope{}, validationError("faculty profile has no uid")
		}
		return model.Scope{FacultyUID: profile.UID}, nil
	case model.RoleHOD:
		if profile.Department == "" {
			return model.Scope{}, validationError("hod profile has no department")
		}
		return model.Scope{Department: profile.Department, Statuses: terminal}, nil
	case model.RoleHallManager:
		if profile.Hall == "" {
			return model.Scope{}, validationError("hall manager profile has no hall")
		}
		return model.Scope{HallName: profile.Hall, Statuses: terminal}, nil
	default:
		return model.Scope{}, forbiddenError("role %q has no booking history", profile.Role)
	}
}
