package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kizuna_web/internals/features/content/news/dto"
	"kizuna_web/internals/features/content/news/model"
	helper "kizuna_web/internals/helpers"
	"kizuna_web/internals/store"
)

var validateNews = validator.New()

type NewsController struct {
	News store.Table[model.NewsModel]
}

func NewNewsController(news store.Table[model.NewsModel]) *NewsController {
	return &NewsController{News: news}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// GET /news (newest first)
func (ctrl *NewsController) List(c *fiber.Ctx) error {
	rows, err := ctrl.News.List(c.UserContext(), store.ListOptions{
		OrderBy:   "published_date",
		Direction: store.Desc,
	})
	if err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows))
}

func (ctrl *NewsController) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	row, err := ctrl.News.GetByID(c.UserContext(), id)
	if err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(row))
}

func (ctrl *NewsController) Create(c *fiber.Ctx) error {
	var req dto.NewsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validateNews.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	m, err := req.ToModel()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctrl.News.Insert(c.UserContext(), m); err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonCreated(c, "news created", dto.FromModel(m))
}

// PATCH /news/:id, absent fields stay untouched.
func (ctrl *NewsController) Patch(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var req dto.UpdateNewsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	fields, err := req.ToUpdates()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if len(fields) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "nothing to update")
	}
	row, err := ctrl.News.Update(c.UserContext(), id, fields)
	if err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonUpdated(c, "news updated", dto.FromModel(row))
}

func (ctrl *NewsController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := ctrl.News.Delete(c.UserContext(), id); err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonDeleted(c, "news deleted", fiber.Map{"id": id})
}
