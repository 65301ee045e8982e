package controller

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/content/jobs/service"
	helper "kizuna_web/internals/helpers"
)

var validateJob = validator.New()

const pdfField = "pdf"

// pdfFromRequest picks up the optional "pdf" file part. A form submitted
// without a file yields nil and no error. The caller must call the returned
// closer once the upload is done.
func pdfFromRequest(c *fiber.Ctx) (*service.PDFUpload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, noop, nil
	}
	fh, err := c.FormFile(pdfField)
	if err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, noop, service.ErrTooLarge
		}
		return nil, noop, nil
	}
	if fh.Filename == "" && fh.Size == 0 {
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &service.PDFUpload{
		Filename:    helper.CleanText(fh.Filename),
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// uploadStatus maps gateway rejections to HTTP statuses for the JSON API.
func uploadStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrNotPDF):
		return fiber.StatusUnsupportedMediaType, true
	case errors.Is(err, service.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge, true
	case errors.Is(err, service.ErrNoFile):
		return fiber.StatusBadRequest, true
	case errors.Is(err, service.ErrUploadFailed):
		return fiber.StatusBadGateway, true
	}
	return 0, false
}
