package model

import "time"

type Role string

const (
	RoleSuper      Role = "super"
	RoleRestricted Role = "restricted"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
