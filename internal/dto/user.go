package dto

import (
	"github.com/yukikurage/note-api/internal/authprovider"
	"github.com/yukikurage/note-api/internal/models"
)

type OnboardRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

type AccountStatusRequest struct {
	Status models.AccountStatus `json:"status" binding:"required"`
}

// IdentityDTO is the response of POST /user/onboard
type IdentityDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginDTO is the response of POST /user/login
type LoginDTO struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileDTO represents the caller's profile
type ProfileDTO struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Email  string               `json:"email"`
	Status models.AccountStatus `json:"status,omitempty"`
}

type AccountStatusDTO struct {
	ID     string               `json:"id"`
	Status models.AccountStatus `json:"status"`
}

type RemovedAccountDTO struct {
	ID        string `json:"id"`
	IsDeleted bool   `json:"is_deleted"`
}

func ToIdentityDTO(identity authprovider.Identity) IdentityDTO {
	return IdentityDTO{ID: identity.ID, Email: identity.Email, Name: identity.Name}
}

func ToLoginDTO(token string, profile models.Profile) LoginDTO {
	return LoginDTO{Token: token, ID: profile.ID, Name: profile.Name, Email: profile.Email}
}

func ToProfileDTO(profile models.Profile) ProfileDTO {
	return ProfileDTO{ID: profile.ID, Name: profile.Name, Email: profile.Email, Status: profile.Status}
}

// HealthDTO is the response of GET /health
type HealthDTO struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Env     string `json:"env"`
}
