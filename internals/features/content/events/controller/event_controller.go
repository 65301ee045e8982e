package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kizuna_web/internals/features/content/events/dto"
	"kizuna_web/internals/features/content/events/model"
	helper "kizuna_web/internals/helpers"
	"kizuna_web/internals/store"
)

var validateEvent = validator.New()

type EventController struct {
	Events store.Table[model.EventModel]
}

func NewEventController(events store.Table[model.EventModel]) *EventController {
	return &EventController{Events: events}
}

// listByDate is the one ordering every event list uses: nearest date first.
func (ctrl *EventController) listByDate(c *fiber.Ctx) ([]model.EventModel, error) {
	return ctrl.Events.List(c.UserContext(), store.ListOptions{OrderBy: "date", Direction: store.Asc})
}

// =======================
// GET /events
// =======================
func (ctrl *EventController) List(c *fiber.Ctx) error {
	rows, err := ctrl.listByDate(c)
	if err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows))
}

// =======================
// GET /events/:id
// =======================
func (ctrl *EventController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	row, err := ctrl.Events.GetByID(c.UserContext(), id)
	if err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(row))
}

// =======================
// POST /events
// =======================
func (ctrl *EventController) Create(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validateEvent.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	m, err := req.ToModel()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctrl.Events.Insert(c.UserContext(), m); err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonCreated(c, "event created", dto.FromModel(m))
}

// =======================
// PATCH /events/:id
// =======================
func (ctrl *EventController) Patch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var req dto.UpdateEventRequest
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
	row, err := ctrl.Events.Update(c.UserContext(), id, fields)
	if err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonUpdated(c, "event updated", dto.FromModel(row))
}

// =======================
// DELETE /events/:id
// =======================
func (ctrl *EventController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := ctrl.Events.Delete(c.UserContext(), id); err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonDeleted(c, "event deleted", fiber.Map{"id": id})
}
