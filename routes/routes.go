package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/leaguedesk/officiating-system/handlers"
	"github.com/leaguedesk/officiating-system/live"
	"github.com/leaguedesk/officiating-system/middleware"
	"github.com/leaguedesk/officiating-system/models"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	refereeHandler *handlers.RefereeHandler,
	matchHandler *handlers.MatchHandler,
	assignmentHandler *handlers.AssignmentHandler,
	fixtureHandler *handlers.FixtureHandler,
	wsHub *live.Hub,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", authHandler.RegisterHandler)
	router.Post("/auth/login", authHandler.LoginHandler)

	// Live-обновления бригад: подписка на комнату лиги.
	router.Get("/ws/leagues/{leagueID}", func(w http.ResponseWriter, r *http.Request) {
		handlers.ServeLeagueWs(wsHub, w, r)
	})

	router.Route("/leagues/{leagueID}", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		// Просмотр доступен всем аутентифицированным ролям.
		r.Get("/referees", refereeHandler.ListLeagueRefereesHandler)
		r.Get("/referees/{refereeID}", refereeHandler.GetRefereeHandler)
		r.Get("/groups/{groupID}/matchdays/{matchdayID}/matches", matchHandler.ListMatchdayMatchesHandler)
		r.Get("/groups/{groupID}/matchdays/{matchdayID}/matches/{matchID}", matchHandler.GetMatchHandler)

		// Изменения — только админ и назначающий.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(models.RoleAdmin), string(models.RoleAssignor)))

			r.Post("/referees/{refereeID}/photo", refereeHandler.UploadRefereePhotoHandler)
			r.Put("/groups/{groupID}/matchdays/{matchdayID}/matches/{matchID}/crew", assignmentHandler.AssignCrewHandler)
			r.Post("/crews/confirm", assignmentHandler.ConfirmCrewsHandler)
			r.Post("/groups/{groupID}/fixtures", fixtureHandler.GenerateFixturesHandler)
		})
	})
}
