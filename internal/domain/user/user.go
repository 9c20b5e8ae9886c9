package user

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         string    `json:"role"`
	Email        *string   `json:"email,omitempty"`
	FullName     *string   `json:"fullName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
