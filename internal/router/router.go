// Package router wires handlers and middleware onto the Echo
// instance.  Public catalogue reads are cached and rate limited;
// every mutation requires a librarian access token.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mfuentes/biblioteca-api/internal/handler"
	"github.com/mfuentes/biblioteca-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the librarian authentication endpoints.
// Register, login, refresh and logout are open; /api/auth/me requires
// a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/api/auth")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}
