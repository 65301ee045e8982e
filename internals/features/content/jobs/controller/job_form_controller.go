package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kizuna_web/internals/features/content/jobs/dto"
	"kizuna_web/internals/features/content/jobs/model"
	"kizuna_web/internals/features/content/jobs/service"
	helper "kizuna_web/internals/helpers"
	"kizuna_web/internals/store"
	"kizuna_web/internals/views"
)

var jobLabels = map[string]string{
	"Title":          "タイトル",
	"EmploymentType": "雇用形態",
}

// JobFormController serves the admin job pages, including the PDF picker.
type JobFormController struct {
	Jobs *service.JobService
}

func NewJobFormController(jobs *service.JobService) *JobFormController {
	return &JobFormController{Jobs: jobs}
}

type jobPage struct {
	id     string
	form   dto.JobRequest
	job    *model.JobModel
	err    string
	notice string
}

func (ctrl *JobFormController) render(c *fiber.Ctx, p jobPage) error {
	title := "求人情報の新規作成"
	if p.id != "" {
		title = "求人情報の編集"
	}
	return views.Admin(c, "job_form", fiber.Map{
		"Title":           title,
		"ID":              p.id,
		"Form":            p.form,
		"Job":             p.job,
		"Error":           p.err,
		"Notice":          p.notice,
		"EmploymentTypes": model.EmploymentTypes,
		"MaxBytes":        ctrl.Jobs.PDFs.MaxBytes(),
	})
}

// readForm parses and validates the submit. Checkbox semantics: an
// unchecked is_active is simply missing, which means inactive.
func readForm(c *fiber.Ctx) (dto.JobRequest, string) {
	var form dto.JobRequest
	if err := c.BodyParser(&form); err != nil {
		return form, "入力内容を読み取れませんでした。"
	}
	form.Normalize()
	if form.IsActive == nil {
		inactive := false
		form.IsActive = &inactive
	}
	if err := validateJob.Struct(&form); err != nil {
		return form, helper.FormError(err, jobLabels)
	}
	return form, ""
}

// inlineMessage is what the form shows for a failed save. Gateway and store
// errors already carry display text, so anything else gets a generic line.
func inlineMessage(err error) string {
	var se *store.Error
	if _, ok := uploadStatus(err); ok || errors.As(err, &se) {
		return err.Error()
	}
	return "保存に失敗しました。時間をおいて再度お試しください。"
}

// GET /admin/jobs/new
func (ctrl *JobFormController) New(c *fiber.Ctx) error {
	active := true
	return ctrl.render(c, jobPage{form: dto.JobRequest{IsActive: &active}})
}

// POST /admin/jobs/new
func (ctrl *JobFormController) Create(c *fiber.Ctx) error {
	form, msg := readForm(c)
	if msg != "" {
		return ctrl.render(c, jobPage{form: form, err: msg})
	}
	pdf, closePDF, err := pdfFromRequest(c)
	if err != nil {
		return ctrl.render(c, jobPage{form: form, err: inlineMessage(err)})
	}
	defer closePDF()

	if _, err := ctrl.Jobs.Create(c.UserContext(), form.ToModel(false), pdf); err != nil {
		log.Printf("[WARN] create job: %v", err)
		return ctrl.render(c, jobPage{form: form, err: inlineMessage(err)})
	}
	return helper.RedirectWithNotice(c, helper.NoticeCreated)
}

// GET /admin/jobs/edit/:id
func (ctrl *JobFormController) Edit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	}
	job, err := ctrl.Jobs.Jobs.GetByID(c.UserContext(), id)
	if err != nil {
		if store.IsNotFound(err) {
			return helper.RedirectWithNotice(c, helper.NoticeMissing)
		}
		return views.Error(c, store.HTTPStatus(err), err.Error())
	}
	p := jobPage{id: id.String(), form: dto.FormFromModel(job), job: job}
	if c.Query("notice") == helper.NoticePDFGone {
		p.notice = "PDFファイルを削除しました。"
	}
	return ctrl.render(c, p)
}

// POST /admin/jobs/edit/:id
func (ctrl *JobFormController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	}
	cur, err := ctrl.Jobs.Jobs.GetByID(c.UserContext(), id)
	if err != nil {
		if store.IsNotFound(err) {
			return helper.RedirectWithNotice(c, helper.NoticeMissing)
		}
		return views.Error(c, store.HTTPStatus(err), err.Error())
	}

	form, msg := readForm(c)
	if msg != "" {
		return ctrl.render(c, jobPage{id: id.String(), form: form, job: cur, err: msg})
	}
	pdf, closePDF, err := pdfFromRequest(c)
	if err != nil {
		return ctrl.render(c, jobPage{id: id.String(), form: form, job: cur, err: inlineMessage(err)})
	}
	defer closePDF()

	if _, err := ctrl.Jobs.Update(c.UserContext(), id, form.ToUpdates(false), pdf); err != nil {
		if store.IsNotFound(err) {
			return helper.RedirectWithNotice(c, helper.NoticeMissing)
		}
		log.Printf("[WARN] update job %s: %v", id, err)
		return ctrl.render(c, jobPage{id: id.String(), form: form, job: cur, err: inlineMessage(err)})
	}
	return helper.RedirectWithNotice(c, helper.NoticeJobSaved)
}

// POST /admin/jobs/edit/:id/pdf/delete
func (ctrl *JobFormController) DeletePDF(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	}
	if _, err := ctrl.Jobs.RemovePDF(c.UserContext(), id); err != nil {
		if store.IsNotFound(err) {
			return helper.RedirectWithNotice(c, helper.NoticeMissing)
		}
		log.Printf("[WARN] remove pdf of job %s: %v", id, err)
		return views.Error(c, store.HTTPStatus(err), err.Error())
	}
	return c.Redirect("/admin/jobs/edit/"+id.String()+"?notice="+helper.NoticePDFGone, fiber.StatusSeeOther)
}

// POST /admin/jobs/delete/:id
func (ctrl *JobFormController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.RedirectWithNotice(c, helper.NoticeMissing)
	}
	if err := ctrl.Jobs.Delete(c.UserContext(), id); err != nil {
		if store.IsNotFound(err) {
			return helper.RedirectWithNotice(c, helper.NoticeMissing)
		}
		log.Printf("[WARN] delete job %s: %v", id, err)
		return views.Error(c, store.HTTPStatus(err), err.Error())
	}
	return helper.RedirectWithNotice(c, helper.NoticeDeleted)
}
