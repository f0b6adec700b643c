package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/gofiber/swagger"

	"docqa/internal/http/middleware"
	"docqa/internal/service"
)

// Services bundles the service dependencies the HTTP layer needs.
type Services struct {
	Auth      service.AuthService
	Documents service.DocumentService
	Questions service.QuestionService
	Answers   service.AnswerService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; business rules live in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services, jwtSecret []byte) {
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/register", Register(svcs.Auth))
	app.Post("/login", Login(svcs.Auth))

	auth := middleware.Auth(jwtSecret)
	admin := middleware.RequireAdmin()

	app.Get("/logout", auth, Logout())

	docs := app.Group("/documents", auth)
	docs.Get("/", ListDocuments(svcs.Documents))
	docs.Post("/", admin, UploadDocument(svcs.Documents, svcs.Answers))
	docs.Get("/:id", GetDocument(svcs.Documents))
	docs.Put("/:id", admin, UpdateDocument(svcs.Documents))
	docs.Delete("/:id", admin, DeleteDocument(svcs.Documents))
	docs.Get("/:id/view", ViewDocument(svcs.Documents))
	docs.Get("/:id/recommend", RecommendDocuments(svcs.Documents))

	questions := app.Group("/questions", auth)
	questions.Post("/", AskQuestion(svcs.Questions))
	questions.Get("/", admin, ListQuestions(svcs.Questions))
	questions.Get("/:id", GetQuestion(svcs.Questions))
	questions.Put("/:id", UpdateQuestion(svcs.Questions))
	questions.Delete("/:id", admin, DeleteQuestion(svcs.Questions))
	questions.Get("/:document_id/questions", admin, ListDocumentQuestions(svcs.Questions))
	questions.Get("/:document_id/users", ListOwnQuestions(svcs.Questions))
}
