package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kizuna_web/internals/features/content/events/dto"
	"kizuna_web/internals/features/content/events/model"
	helper "kizuna_web/internals/helpers"
	"kizuna_web/internals/store"
	"kizuna_web/internals/views"
)

var eventLabels = map[string]string{
	"Title":       "タイトル",
	"Description": "説明",
	"Date":        "日付",
	"Location":    "場所",
}

// EventFormController serves the admin create/edit pages for events.
type EventFormController struct {
	Events store.Table[model.EventModel]
}

func NewEventFormController(events store.Table[model.EventModel]) *EventFormController {
	return &EventFormController{Events: events}
}

func (ctrl *EventFormController) render(c *fiber.Ctx, id string, form dto.EventRequest, msg string) error {
	title := "イベントの新規作成"
	if id != "" {
		title = "イベントの編集"
	}
	return views.Admin(c, "event_form", fiber.Map{
		"Title": title,
		"ID":    id,
		"Form":  form,
		"Error": msg,
	})
}

// GET /admin/events/new
func (ctrl *EventFormController) New(c *fiber.Ctx) error {
	return ctrl.render(c, "", dto.EventRequest{}, "")
}

// POST /admin/events/new
func (ctrl *EventFormController) Create(c *fiber.Ctx) error {
	var form dto.EventRequest
	if err := c.BodyParser(&form); err != nil {
		return ctrl.render(c, "", form, "入力内容を読み取れませんでした。")
	}
	form.Normalize()
	if err := validateEvent.Struct(&form); err != nil {
		return ctrl.render(c, "", form, helper.FormError(err, eventLabels))
	}
	m, err := form.ToModel()
	if err != nil {
		return ctrl.render(c, "", form, err.Error())
	}
	if err := ctrl.Events.Insert(c.UserContext(), m); err != nil {
		log.Printf("[WARN] create event: %v", err)
		return ctrl.render(c, "", form, err.Error())
	}
	return helper.RedirectWithNotice(c, helper.NoticeCreated)
}

// GET /admin/events/edit/:id
func (ctrl *EventFormController) Edit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	}
	row, err := ctrl.Events.GetByID(c.UserContext(), id)
	if err != nil {
		if store.IsNotFound(err) {
			return helper.RedirectWithNotice(c, helper.NoticeMissing)
		}
		return views.Error(c, store.HTTPStatus(err), err.Error())
	}
	return ctrl.render(c, id.String(), dto.FormFromModel(row), "")
}

// POST /admin/events/edit/:id
func (ctrl *EventFormController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	}
	var form dto.EventRequest
	if err := c.BodyParser(&form); err != nil {
		return ctrl.render(c, id.String(), form, "入力内容を読み取れませんでした。")
	}
	form.Normalize()
	if err := validateEvent.Struct(&form); err != nil {
		return ctrl.render(c, id.String(), form, helper.FormError(err, eventLabels))
	}
	fields, err := form.ToUpdates()
	if err != nil {
		return ctrl.render(c, id.String(), form, err.Error())
	}
	if _, err := ctrl.Events.Update(c.UserContext(), id, fields); err != nil {
		if store.IsNotFound(err) {
			return helper.RedirectWithNotice(c, helper.NoticeMissing)
		}
		log.Printf("[WARN] update event %s: %v", id, err)
		return ctrl.render(c, id.String(), form, err.Error())
	}
	return helper.RedirectWithNotice(c, helper.NoticeUpdated)
}

// POST /admin/events/delete/:id
func (ctrl *EventFormController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	}
	if err := ctrl.Events.Delete(c.UserContext(), id); err != nil {
		if store.IsNotFound(err) {
			return helper.RedirectWithNotice(c, helper.NoticeMissing)
		}
		log.Printf("[WARN] delete event %s: %v", id, err)
		return views.Error(c, store.HTTPStatus(err), err.Error())
	}
	return helper.RedirectWithNotice(c, helper.NoticeDeleted)
}
