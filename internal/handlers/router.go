package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/memberhub/memberhub/internal/middleware"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	Signup            *SignupHandlers
	Plans             *PlansHandlers
	Auth              *middleware.AuthMiddleware
	Metrics           http.Handler
	CORSAllowedOrigin string
	Logger            *logrus.Logger
}

func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigin))
	router.Use(middleware.LoggingMiddleware(cfg.Logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "OPTIONS")

	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics).Methods("GET")
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	if cfg.Auth != nil {
		api.Use(cfg.Auth.Authenticate)
	}

	signup := api.PathPrefix("/signup/sessions").Subrouter()
	signup.HandleFunc("", cfg.Signup.StartSession).Methods("POST", "OPTIONS")
	signup.HandleFunc("/{id}", cfg.Signup.GetSession).Methods("GET", "OPTIONS")
	signup.HandleFunc("/{id}/fields", cfg.Signup.UpdateField).Methods("PATCH", "OPTIONS")
	signup.HandleFunc("/{id}/otp/{channel}", cfg.Signup.DispatchOTP).Methods("POST", "OPTIONS")
	signup.HandleFunc("/{id}/submit", cfg.Signup.Submit).Methods("POST", "OPTIONS")

	api.HandleFunc("/club/plans", cfg.Plans.ListPlans).Methods("GET", "OPTIONS")

	return router
}
