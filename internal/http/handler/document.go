package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docqa/internal/http/middleware"
	"docqa/internal/service"
)

func formValuePtr(c *fiber.Ctx, key string) *string {
	if v := c.FormValue(key); v != "" {
		return &v
	}
	return nil
}

func parseIDParam(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListDocuments returns a paginated document listing.
//
//	@Summary  List documents
//	@Tags     documents
//	@Param    limit   query  int  false  "page size"    default(10)
//	@Param    offset  query  int  false  "page offset"  default(0)
//	@Success  200  {object}  service.DocumentListResult
//	@Router   /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument stores a new document from a multipart form (field "file",
// plus title/description/tags). After the row is saved the remote copy is
// warmed best-effort; a warm-up failure never fails the upload.
//
//	@Summary  Upload a document
//	@Tags     documents
//	@Accept   multipart/form-data
//	@Success  201  {object}  model.Document
//	@Router   /documents [post]
func UploadDocument(svc service.DocumentService, answers service.AnswerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		userID, _ := c.Locals(middleware.UserIDLocalKey).(string)
		doc, err := svc.Upload(c.UserContext(), f, service.UploadInput{
			UserID:           userID,
			Title:            c.FormValue("title"),
			Description:      formValuePtr(c, "description"),
			Tags:             formValuePtr(c, "tags"),
			OriginalFilename: fh.Filename,
			ContentType:      ct,
			Size:             fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}

		if answers != nil {
			// Warm the answer-service copy so the first question is fast.
			_, _ = answers.EnsureFresh(c.UserContext(), doc)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns one document by ID.
//
//	@Summary  Get a document
//	@Tags     documents
//	@Param    id  path  string  true  "document id"
//	@Success  200  {object}  model.Document
//	@Router   /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDocument applies metadata changes and an optional replacement file.
//
//	@Summary  Update a document
//	@Tags     documents
//	@Accept   multipart/form-data
//	@Param    id  path  string  true  "document id"
//	@Success  200  {object}  model.Document
//	@Router   /documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		in := service.UpdateInput{
			Title:       formValuePtr(c, "title"),
			Description: formValuePtr(c, "description"),
			Tags:        formValuePtr(c, "tags"),
		}

		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			in.File = f
			in.Filename = fh.Filename
			in.ContentType = ct
			in.Size = fh.Size
		}

		doc, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document and its stored object.
//
//	@Summary  Delete a document
//	@Tags     documents
//	@Param    id  path  string  true  "document id"
//	@Success  204
//	@Router   /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
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

// ViewDocument returns a time-limited download URL for the stored file.
//
//	@Summary  Presigned download link
//	@Tags     documents
//	@Param    id  path  string  true  "document id"
//	@Success  200  {object}  map[string]string
//	@Router   /documents/{id}/view [get]
func ViewDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.ViewURL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": u})
	}
}

// RecommendDocuments returns up to three documents ranked by tag overlap.
//
//	@Summary  Related documents
//	@Tags     documents
//	@Param    id  path  string  true  "document id"
//	@Success  200  {array}  model.Document
//	@Router   /documents/{id}/recommend [get]
func RecommendDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		docs, err := svc.Recommend(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}
