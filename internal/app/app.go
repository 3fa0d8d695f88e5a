// Package app wires repositories, services and the HTTP router together.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KHILANO5/Campusfound/config"
	"github.com/KHILANO5/Campusfound/internal/api/handler"
	"github.com/KHILANO5/Campusfound/internal/api/router"
	"github.com/KHILANO5/Campusfound/internal/repository"
	"github.com/KHILANO5/Campusfound/internal/service"
	"github.com/KHILANO5/Campusfound/pkg/database"
)

// Services groups the domain services built by NewServices.
type Services struct {
	Posts service.PostService
	Auth  service.AuthService
}

// NewServices builds the service layer over db. A nil clock means wall time.
func NewServices(cfg *config.Config, db *gorm.DB, clock service.Clock) (*Services, error) {
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)

	auth, err := service.NewAuthService(users, cfg.Auth.BcryptCost, clock)
	if err != nil {
		return nil, err
	}
	return &Services{
		Posts: service.NewPostService(posts, users, clock),
		Auth:  auth,
	}, nil
}

// NewEngine returns the ready-to-serve gin engine.
func NewEngine(cfg *config.Config, db *gorm.DB, clock service.Clock) (*gin.Engine, error) {
	svcs, err := NewServices(cfg, db, clock)
	if err != nil {
		return nil, err
	}
	h := handler.NewHandler(svcs.Posts, svcs.Auth, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	})
	return router.Setup(cfg, h), nil
}
