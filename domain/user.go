package domain

// Role is the category carried by every user record. Other services gate
// their writes on it: student and result writes require ADMIN, payments
// and student links require PARENT.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleParent  Role = "PARENT"
	RoleTeacher Role = "TEACHER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleParent, RoleTeacher:
		return true
	}
	return false
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
