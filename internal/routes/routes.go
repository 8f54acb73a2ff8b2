package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/soniarr234/fitlover-back/internal/config"
	"github.com/soniarr234/fitlover-back/internal/events"
	"github.com/soniarr234/fitlover-back/internal/handlers"
	"github.com/soniarr234/fitlover-back/internal/middleware"
	"github.com/soniarr234/fitlover-back/internal/repository"
	"github.com/soniarr234/fitlover-back/internal/services"
	routinews "github.com/soniarr234/fitlover-back/internal/websocket"
)

// Dependencies are the process-wide collaborators built in main.
type Dependencies struct {
	Config      *config.Config
	Store       repository.Store
	Resolver    *services.IdentityResolver
	Hub         *routinews.Hub
	Publisher   events.Publisher
	Storage     services.MediaStorage
	RateLimiter *middleware.RateLimiter
	Logger      logrus.FieldLogger
}

func RegisterRoutes(app *fiber.App, deps Dependencies) error {
	catalogService := services.NewCatalogService(deps.Store.Exercises(), deps.Storage, deps.Logger)
	routineService := services.NewRoutineService(deps.Store, deps.Publisher, deps.Logger)
	compositionService := services.NewCompositionService(deps.Store, catalogService, deps.Publisher, deps.Logger)

	authHandler := handlers.NewAuthHandler(deps.Store.Users(), deps.Resolver, deps.Logger)
	exerciseHandler := handlers.NewExerciseHandler(catalogService, deps.Logger)
	routineHandler := handlers.NewRoutineHandler(routineService, compositionService, deps.Logger)
	streamHandler := handlers.NewRoutineStreamHandler(deps.Hub, deps.Resolver)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if err := registerDocsRoutes(app, deps.Config); err != nil {
		return err
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	if deps.RateLimiter != nil {
		auth.Use(deps.RateLimiter.Handler())
	}
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(deps.Resolver), authHandler.Me)

	api.Use("/v1/ws", streamHandler.Upgrade)
	api.Get("/v1/ws", websocket.New(streamHandler.Stream))

	authProtected := api.Group("/v1", middleware.AuthRequired(deps.Resolver))
	if deps.RateLimiter != nil {
		authProtected.Use(deps.RateLimiter.Handler())
	}

	exercises := authProtected.Group("/exercises")
	exercises.Get("", exerciseHandler.ListExercises)
	exercises.Post("", exerciseHandler.CreateExercise)
	exercises.Get("/:id", exerciseHandler.GetExercise)
	exercises.Put("/:id/notes", exerciseHandler.UpdateNotes)
	exercises.Delete("/:id", exerciseHandler.DeleteExercise)
	exercises.Post("/:id/media", exerciseHandler.UploadMedia)

	routines := authProtected.Group("/routines")
	routines.Put("/order", routineHandler.ReorderRoutines)
	routines.Post("", routineHandler.CreateRoutine)
	routines.Get("", routineHandler.ListRoutines)
	routines.Get("/:id", routineHandler.GetRoutine)
	routines.Put("/:id", routineHandler.RenameRoutine)
	routines.Delete("/:id", routineHandler.DeleteRoutine)
	routines.Get("/:id/exercises", routineHandler.ListEntries)
	routines.Post("/:id/exercises", routineHandler.AddEntry)
	routines.Put("/:id/exercises/order", routineHandler.ReorderEntries)
	routines.Delete("/:id/exercises/:exerciseId", routineHandler.RemoveEntry)
	routines.Put("/:id/exercises/:exerciseId/position", routineHandler.MoveEntry)

	return nil
}
