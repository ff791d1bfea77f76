package controller

import (
	"go.uber.org/zap"

	"github.com/hiphil2000/IB.React/internal/service"
	"github.com/hiphil2000/IB.React/internal/storage"
)

type Controller struct {
	log         *zap.SugaredLogger
	jwtService  *service.JwtService
	authService *service.AuthService
	users       storage.UserRepository
	codes       storage.CodeRepository
}

func NewController(
	log *zap.SugaredLogger,
	jwtService *service.JwtService,
	authService *service.AuthService,
	users storage.UserRepository,
	codes storage.CodeRepository,
) *Controller {
	return &Controller{
		log:         log,
		jwtService:  jwtService,
		authService: authService,
		users:       users,
		codes:       codes,
	}
}
