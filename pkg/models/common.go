package models

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	RoleAdmin    = `admin`
	RoleEmployee = `employee`
)

type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

// Session identifies the signed-in user. It is built once per request from the
// token claims and passed explicitly to every service call.
type Session struct {
	ID       string
	UserID   string
	UserName string
	Role     string
}

type ErrorResponse struct {
	Error string `json:"error"`
}
