package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleAssignor UserRole = "assignor"
	RoleViewer   UserRole = "viewer"
)

type User struct {
	ID           int       `json:"id"`
	LeagueID     int       `json:"league_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
