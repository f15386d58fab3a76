package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDAdmin    = 1
	RoleIDDoctor   = 2
	RoleIDPatient  = 3
	RoleIDPharmacy = 4
)

// RoleNames constants
const (
	RoleAdmin    = "admin"
	RoleDoctor   = "doctor"
	RolePatient  = "patient"
	RolePharmacy = "pharmacy"
)

// DefaultRoles are seeded on every fresh database.
var DefaultRoles = []Role{
	{ID: RoleIDAdmin, RoleName: RoleAdmin, Description: "Platform administrator"},
	{ID: RoleIDDoctor, RoleName: RoleDoctor, Description: "Doctor offering consultations"},
	{ID: RoleIDPatient, RoleName: RolePatient, Description: "Patient booking appointments"},
	{ID: RoleIDPharmacy, RoleName: RolePharmacy, Description: "Pharmacy filling prescriptions"},
}

// RoleName maps a role id to its name, or "" when unknown.
func RoleName(roleID int) string {
	for _, r := range DefaultRoles {
		if r.ID == roleID {
			return r.RoleName
		}
	}
	return ""
}
