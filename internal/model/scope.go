package model

// Scope предикат чтения, который роль имеет право применять.
// Пустые поля не участвуют в фильтрации.
type Scope struct {
	FacultyUID string
	Department string
	HallName   string
	Statuses   []ApprovalStatus
}

// Matches проверяет попадает ли заявка под предикат
func (s Scope) Matches(r *BookingRequest) bool {
	if s.FacultyUID != "" && r.FacultyUID != s.FacultyUID {
		return false
	}
	if s.Department != "" && r.Department != s.Department {
		return false
	}
	if s.HallName != "" && r.HallName != s.HallName {
		return false
	}
	if len(s.Statuses) == 0 {
		return true
	}
	for _, st := range s.Statuses {
		if r.ApprovalRequest == st {
			return true
		}
	}
	return false
}

// WithStatuses возвращает копию предиката с другим набором статусов
func (s Scope) WithStatuses(statuses ...ApprovalStatus) Scope {
	s.Statuses = statuses
	return s
}
