package router

import (
	"go-auth-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(sessionHandler *handler.SessionHandler, userHandler *handler.UserHandler, authMW *handler.AuthMiddleware, allowedOrigin string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.Handle("POST /auth/register", handler.ErrorHandlingMiddleware(sessionHandler.Register))
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(sessionHandler.Login))
	mux.Handle("POST /auth/refresh", handler.ErrorHandlingMiddleware(sessionHandler.Refresh))
	mux.Handle("POST /auth/logout", handler.ErrorHandlingMiddleware(sessionHandler.Logout))
	mux.Handle("POST /auth/logout-all", authMW.RequireAccessToken(handler.ErrorHandlingMiddleware(sessionHandler.LogoutAll)))

	mux.Handle("GET /user/profile", authMW.RequireAccessToken(http.HandlerFunc(userHandler.Profile)))

	return handler.CORSMiddleware(allowedOrigin)(mux)
}
