package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docqa/internal/http/middleware"
	"docqa/internal/repository"
	"docqa/internal/service"
)

type askQuestionRequest struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
}

type updateQuestionRequest struct {
	Question string `json:"question"`
}

// AskQuestion stores a question and answers it synchronously against the
// referenced document. The question row survives an answering failure.
//
//	@Summary  Ask a question about a document
//	@Tags     questions
//	@Accept   json
//	@Success  201  {object}  model.Question
//	@Router   /questions [post]
func AskQuestion(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req askQuestionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		userID, _ := c.Locals(middleware.UserIDLocalKey).(string)
		q, err := svc.Ask(c.UserContext(), userID, req.DocumentID, req.Question)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(q)
	}
}

// ListQuestions returns a paginated listing of all questions.
//
//	@Summary  List questions
//	@Tags     questions
//	@Success  200  {object}  service.QuestionListResult
//	@Router   /questions [get]
func ListQuestions(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), repository.PageQuery{Limit: limit, Offset: offset})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetQuestion returns one question by ID.
//
//	@Summary  Get a question
//	@Tags     questions
//	@Param    id  path  string  true  "question id"
//	@Success  200  {object}  model.Question
//	@Router   /questions/{id} [get]
func GetQuestion(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		q, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(q)
	}
}

// ListDocumentQuestions returns every question asked about one document.
//
//	@Summary  Questions for a document
//	@Tags     questions
//	@Param    document_id  path  string  true  "document id"
//	@Success  200  {array}  model.Question
//	@Router   /questions/{document_id}/questions [get]
func ListDocumentQuestions(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docID, ok := parseIDParam(c, "document_id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		items, err := svc.ListByDocument(c.UserContext(), docID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// ListOwnQuestions returns the caller's questions for one document.
//
//	@Summary  Caller's questions for a document
//	@Tags     questions
//	@Param    document_id  path  string  true  "document id"
//	@Success  200  {array}  model.Question
//	@Router   /questions/{document_id}/users [get]
func ListOwnQuestions(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docID, ok := parseIDParam(c, "document_id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		userID, _ := c.Locals(middleware.UserIDLocalKey).(string)
		items, err := svc.ListOwn(c.UserContext(), userID, docID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// UpdateQuestion rewrites the question text. Author only; the stale answer
// is dropped.
//
//	@Summary  Update a question
//	@Tags     questions
//	@Accept   json
//	@Param    id  path  string  true  "question id"
//	@Success  200  {object}  model.Question
//	@Router   /questions/{id} [put]
func UpdateQuestion(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req updateQuestionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		callerID, _ := c.Locals(middleware.UserIDLocalKey).(string)
		q, err := svc.Update(c.UserContext(), callerID, id, req.Question)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(q)
	}
}

// DeleteQuestion removes a question by ID.
//
//	@Summary  Delete a question
//	@Tags     questions
//	@Param    id  path  string  true  "question id"
//	@Success  204
//	@Router   /questions/{id} [delete]
func DeleteQuestion(svc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
