package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	blogHandler *handler.BlogHandler,
	contactHandler *handler.ContactHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{
			cfg.ClientURL,
			"http://localhost:5173",
			"http://localhost:3000",
		},
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/google", authHandler.GoogleLogin)
	api.GET("/auth/google/callback", authHandler.GoogleCallback)

	api.GET("/blogs", blogHandler.List)
	api.GET("/blogs/uploads/:imageId", blogHandler.ServeImage)
	api.GET("/blogs/:id", blogHandler.Get)

	api.POST("/contact", contactHandler.Submit)
	api.GET("/contact", contactHandler.List)

	// Secured routes (require a valid bearer token resolving to a live user)
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
				return jwtService.ValidateToken(token)
			},
		}),
		resolveUser(authService),
	)

	secured.GET("/auth/me", authHandler.Me)

	secured.POST("/blogs", blogHandler.Create)
	secured.PUT("/blogs/:id", blogHandler.Update)
	secured.DELETE("/blogs/:id", blogHandler.Delete)
	secured.POST("/blogs/:id/like", blogHandler.ToggleLike)
	secured.POST("/blogs/:id/comment", blogHandler.AddComment)
	secured.DELETE("/blogs/:id/comment/:cid", blogHandler.DeleteComment)
}

// resolveUser loads the user the validated token refers to and stores it in
// the request context. A token whose user has been deleted is rejected.
func resolveUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			userID, err := claims.SubjectID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := authService.CurrentUser(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(handler.CurrentUserKey, user)
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
