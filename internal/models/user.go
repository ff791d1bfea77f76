package models

// User mirrors one row of the users table.
// The password column is only ever compared inside the store; it is never
// serialized outward.
type User struct {
	UserNo   int64  `json:"userNo"`
	UserID   string `json:"userId"`
	Password string `json:"-"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}
