package model

type Role string

const (
	RoleFaculty     Role = "faculty"
	RoleHOD         Role = "hod"
	RoleHallManager Role = "hallmanager"
	RoleStudent     Role = "student"
)

// UserProfile профиль пользователя. Принадлежит внешнему сервису профилей,
// ядро его только читает.
type UserProfile struct {
	UID            string `json:"uid"`
	Role           Role   `json:"role"`
	Department     string `json:"department,omitempty"` // для faculty и hod
	Hall           string `json:"hall,omitempty"`       // для hallmanager
	Name           string `json:"name"`
	TelegramChatID *int64 `json:"telegramChatId,omitempty"`
}

// IsHallManagerOf проверяет что пользователь управляет указанным залом
func (p *UserProfile) IsHallManagerOf(hall string) bool {
	return p.Role == RoleHallManager && p.Hall != "" && p.Hall == hall
}

// CanSubmit проверяет может ли пользователь подавать заявки
func (p *UserProfile) CanSubmit() bool {
	return p.Role == RoleFaculty || p.Role == RoleHOD
}

type Hall struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}
