package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/content/news/dto"
	"kizuna_web/internals/features/content/news/model"
	helper "kizuna_web/internals/helpers"
	"kizuna_web/internals/store"
	"kizuna_web/internals/views"
)

var newsLabels = map[string]string{
	"Title":         "タイトル",
	"Content":       "本文",
	"PublishedDate": "公開日",
}

type NewsFormController struct {
	News store.Table[model.NewsModel]
}

func NewNewsFormController(news store.Table[model.NewsModel]) *NewsFormController {
	return &NewsFormController{News: news}
}

func (ctrl *NewsFormController) render(c *fiber.Ctx, id string, form dto.NewsRequest, msg string) error {
	title := "お知らせの新規作成"
	if id != "" {
		title = "お知らせの編集"
	}
	return views.Admin(c, "news_form", fiber.Map{
		"Title": title,
		"ID":    id,
		"Form":  form,
		"Error": msg,
	})
}

// parseForm reads, normalises and validates a submit. A non-empty message
// means the form goes back to the admin as-is.
func parseForm(c *fiber.Ctx) (dto.NewsRequest, string) {
	var form dto.NewsRequest
	if err := c.BodyParser(&form); err != nil {
		return form, "入力内容を読み取れませんでした。"
	}
	form.Normalize()
	if err := validateNews.Struct(&form); err != nil {
		return form, helper.FormError(err, newsLabels)
	}
	return form, ""
}

func (ctrl *NewsFormController) New(c *fiber.Ctx) error {
	return ctrl.render(c, "", dto.NewsRequest{}, "")
}

func (ctrl *NewsFormController) Create(c *fiber.Ctx) error {
	form, msg := parseForm(c)
	if msg != "" {
		return ctrl.render(c, "", form, msg)
	}
	m, err := form.ToModel()
	if err != nil {
		return ctrl.render(c, "", form, err.Error())
	}
	if err := ctrl.News.Insert(c.UserContext(), m); err != nil {
		log.Printf("[WARN] create news: %v", err)
		return ctrl.render(c, "", form, err.Error())
	}
	return helper.RedirectWithNotice(c, helper.NoticeCreated)
}

func (ctrl *NewsFormController) Edit(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	}
	row, err := ctrl.News.GetByID(c.UserContext(), id)
	switch {
	case store.IsNotFound(err):
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	case err != nil:
		return views.Error(c, store.HTTPStatus(err), err.Error())
	}
	return ctrl.render(c, id.String(), dto.FormFromModel(row), "")
}

func (ctrl *NewsFormController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	}
	form, msg := parseForm(c)
	if msg != "" {
		return ctrl.render(c, id.String(), form, msg)
	}
	fields, err := form.ToUpdates()
	if err != nil {
		return ctrl.render(c, id.String(), form, err.Error())
	}
	_, err = ctrl.News.Update(c.UserContext(), id, fields)
	switch {
	case store.IsNotFound(err):
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	case err != nil:
		log.Printf("[WARN] update news %s: %v", id, err)
		return ctrl.render(c, id.String(), form, err.Error())
	}
	return helper.RedirectWithNotice(c, helper.NoticeUpdated)
}

func (ctrl *NewsFormController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	}
	err = ctrl.News.Delete(c.UserContext(), id)
	switch {
	case store.IsNotFound(err):
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	case err != nil:
		log.Printf("[WARN] delete news %s: %v", id, err)
		return views.Error(c, store.HTTPStatus(err), err.Error())
	}
	return helper.RedirectWithNotice(c, helper.NoticeDeleted)
}
