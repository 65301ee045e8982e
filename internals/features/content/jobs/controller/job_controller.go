package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kizuna_web/internals/features/content/jobs/dto"
	"kizuna_web/internals/features/content/jobs/service"
	helper "kizuna_web/internals/helpers"
)

type JobController struct {
	Jobs *service.JobService
}

func NewJobController(jobs *service.JobService) *JobController {
	return &JobController{Jobs: jobs}
}

func (ctrl *JobController) fail(c *fiber.Ctx, err error) error {
	if status, ok := uploadStatus(err); ok {
		return helper.JsonError(c, status, err.Error())
	}
	return helper.JsonStoreError(c, err)
}

// =======================
// GET /public/jobs (pass required): active only
// =======================
func (ctrl *JobController) ListActive(c *fiber.Ctx) error {
	rows, err := ctrl.Jobs.ListActive(c.UserContext())
	if err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows))
}

// =======================
// GET /a/jobs: everything, inactive included
// =======================
func (ctrl *JobController) ListAll(c *fiber.Ctx) error {
	rows, err := ctrl.Jobs.ListAll(c.UserContext())
	if err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows))
}

func (ctrl *JobController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	row, err := ctrl.Jobs.Jobs.GetByID(c.UserContext(), id)
	if err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(row))
}

// =======================
// POST /a/jobs: JSON, or multipart with an optional "pdf" file
// =======================
func (ctrl *JobController) Create(c *fiber.Ctx) error {
	var req dto.JobRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validateJob.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	pdf, closePDF, err := pdfFromRequest(c)
	if err != nil {
		return ctrl.fail(c, err)
	}
	defer closePDF()

	job, err := ctrl.Jobs.Create(c.UserContext(), req.ToModel(true), pdf)
	if err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonCreated(c, "job created", dto.FromModel(job))
}

// =======================
// PATCH /a/jobs/:id (JSON, tri-state)
// =======================
func (ctrl *JobController) Patch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var req dto.UpdateJobRequest
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
	job, err := ctrl.Jobs.Update(c.UserContext(), id, fields, nil)
	if err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonUpdated(c, "job updated", dto.FromModel(job))
}

// =======================
// PUT /a/jobs/:id/pdf (multipart): attach or replace the PDF
// =======================
func (ctrl *JobController) PutPDF(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	pdf, closePDF, err := pdfFromRequest(c)
	if err != nil {
		return ctrl.fail(c, err)
	}
	defer closePDF()
	if pdf == nil {
		return ctrl.fail(c, service.ErrNoFile)
	}
	job, err := ctrl.Jobs.Update(c.UserContext(), id, nil, pdf)
	if err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonUpdated(c, "pdf uploaded", dto.FromModel(job))
}

// =======================
// DELETE /a/jobs/:id/pdf
// =======================
func (ctrl *JobController) DeletePDF(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	job, err := ctrl.Jobs.RemovePDF(c.UserContext(), id)
	if err != nil {
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonUpdated(c, "pdf removed", dto.FromModel(job))
}

func (ctrl *JobController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := ctrl.Jobs.Delete(c.UserContext(), id); err != nil {
		log.Printf("[WARN] delete job %s: %v", id, err)
		return helper.JsonStoreError(c, err)
	}
	return helper.JsonDeleted(c, "job deleted", fiber.Map{"id": id})
}
