// Package server assembles the HTTP router.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/note-api/internal/authprovider"
	"github.com/yukikurage/note-api/internal/config"
	"github.com/yukikurage/note-api/internal/constants"
	"github.com/yukikurage/note-api/internal/handlers"
	"github.com/yukikurage/note-api/internal/logging"
	"github.com/yukikurage/note-api/internal/middleware"
	"github.com/yukikurage/note-api/internal/repository"
	"github.com/yukikurage/note-api/internal/services"
	"github.com/yukikurage/note-api/internal/validation"
	"gorm.io/gorm"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Provider authprovider.Provider
	Sessions sessions.Store
	Logger   zerolog.Logger
}

// NewSessionStore returns a Redis backed store when REDIS_HOST is set and a
// signed cookie store otherwise.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(10, "tcp", redisAddr, "", "", []byte(cfg.SessionSecret))
		if err != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", err)
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   !cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// NewRouter wires middleware, handlers and routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	validator, err := validation.New()
	if err != nil {
		return nil, err
	}

	todoRepo := repository.NewTodoRepository(deps.DB)
	labelRepo := repository.NewLabelRepository(deps.DB)
	profileRepo := repository.NewProfileRepository(deps.DB)

	todoHandler := handlers.NewTodoHandler(services.NewTodoService(todoRepo, labelRepo))
	labelHandler := handlers.NewLabelHandler(services.NewLabelService(labelRepo))
	userHandler := handlers.NewUserHandler(services.NewProfileService(profileRepo, deps.Provider), deps.Logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(deps.Config.IsDevelopment(), deps.Config.AllowedOrigins))
	r.Use(logging.Middleware(deps.Logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.Sessions))

	r.GET("/health", handlers.Health(deps.Config.Env))

	auth := middleware.RequireAuth(deps.Provider)
	check := validator.Middleware

	todo := r.Group("/todo")
	todo.Use(auth)
	{
		todo.POST("/create", check(validation.TodoCreate), todoHandler.CreateTodo)
		todo.GET("/list", check(validation.TodoList), todoHandler.ListTodos)
		todo.PUT("/update/:id", check(validation.TodoUpdate), todoHandler.UpdateTodo)
		todo.DELETE("/delete/:id", check(validation.TodoDelete), todoHandler.DeleteTodo)
		todo.POST("/add-label/:id", check(validation.TodoLabel), todoHandler.AddLabel)
		todo.DELETE("/remove-label/:id", check(validation.TodoLabel), todoHandler.RemoveLabel)
		todo.GET("/filter-todo-by-label/:id", check(validation.IDParam), todoHandler.FilterTodosByLabel)
	}

	label := r.Group("/label")
	label.Use(auth)
	{
		label.POST("/create", check(validation.LabelCreate), labelHandler.CreateLabel)
		label.GET("/list", labelHandler.ListLabels)
		label.GET("/get/:id", check(validation.IDParam), labelHandler.GetLabel)
		label.PUT("/update/:id", check(validation.LabelUpdate), labelHandler.UpdateLabel)
		label.DELETE("/delete/:id", check(validation.LabelDelete), labelHandler.DeleteLabel)
	}

	user := r.Group("/user")
	{
		user.POST("/onboard", check(validation.UserOnboard), userHandler.Onboard)
		user.POST("/login", check(validation.UserLogin), userHandler.Login)
		user.POST("/logout", auth, userHandler.Logout)
		user.GET("/me", auth, userHandler.Me)
		user.PUT("/update", auth, check(validation.UserUpdate), userHandler.UpdateProfile)
		user.PUT("/account-status", auth, check(validation.UserAccountStatus), userHandler.UpdateAccountStatus)
		user.DELETE("/remove", auth, userHandler.RemoveAccount)
	}

	return r, nil
}
