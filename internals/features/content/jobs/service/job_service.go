package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"kizuna_web/internals/features/content/jobs/model"
	"kizuna_web/internals/store"
)

// JobService ties job rows to their PDF objects. There is no transaction
// spanning the bucket and the table: a failure between the two steps can
// leave an orphan object, which is logged.
type JobService struct {
	Jobs store.Table[model.JobModel]
	PDFs *PDFGateway
}

func NewJobService(jobs store.Table[model.JobModel], pdfs *PDFGateway) *JobService {
	return &JobService{Jobs: jobs, PDFs: pdfs}
}

func (s *JobService) Create(ctx context.Context, job *model.JobModel, pdf *PDFUpload) (*model.JobModel, error) {
	var stored *StoredPDF
	if pdf != nil {
		var err error
		if stored, err = s.PDFs.Upload(ctx, pdf); err != nil {
			return nil, err
		}
		job.PDFURL, job.PDFFilename, job.PDFStorageKey = &stored.URL, &stored.Filename, &stored.Key
	}

	if err := s.Jobs.Insert(ctx, job); err != nil {
		if stored != nil {
			log.Printf("[WARN] job insert failed, dropping uploaded %s", stored.Key)
			s.PDFs.Remove(ctx, &stored.Key, nil)
		}
		return nil, err
	}
	return job, nil
}

// Update writes fields and, when pdf is given, swaps the attached PDF. The
// previous object is removed only after the row points at the new one.
func (s *JobService) Update(ctx context.Context, id uuid.UUID, fields map[string]any, pdf *PDFUpload) (*model.JobModel, error) {
	cur, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		patch[k] = v
	}
	var stored *StoredPDF
	if pdf != nil {
		if stored, err = s.PDFs.Upload(ctx, pdf); err != nil {
			return nil, err
		}
		for k, v := range stored.Columns() {
			patch[k] = v
		}
	}

	updated, err := s.Jobs.Update(ctx, id, patch)
	if err != nil {
		if stored != nil {
			s.PDFs.Remove(ctx, &stored.Key, nil)
		}
		return nil, err
	}
	if stored != nil && cur.HasPDF() {
		s.PDFs.Remove(ctx, cur.PDFStorageKey, cur.PDFURL)
	}
	return updated, nil
}

// RemovePDF detaches the PDF: best-effort object removal, then the three
// columns are nulled. A job without a PDF is returned unchanged.
func (s *JobService) RemovePDF(ctx context.Context, id uuid.UUID) (*model.JobModel, error) {
	cur, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cur.HasPDF() && cur.PDFStorageKey == nil {
		return cur, nil
	}
	s.PDFs.Remove(ctx, cur.PDFStorageKey, cur.PDFURL)
	return s.Jobs.Update(ctx, id, map[string]any{
		"pdf_url":         (*string)(nil),
		"pdf_filename":    (*string)(nil),
		"pdf_storage_key": (*string)(nil),
	})
}

func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	cur, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Jobs.Delete(ctx, id); err != nil {
		return err
	}
	s.PDFs.Remove(ctx, cur.PDFStorageKey, cur.PDFURL)
	return nil
}

func (s *JobService) ListActive(ctx context.Context) ([]model.JobModel, error) {
	return s.Jobs.List(ctx, store.ListOptions{
		OrderBy:   "created_at",
		Direction: store.Desc,
		Eq:        map[string]any{"is_active": true},
	})
}

func (s *JobService) ListAll(ctx context.Context) ([]model.JobModel, error) {
	return s.Jobs.List(ctx, store.ListOptions{OrderBy: "created_at", Direction: store.Desc})
}
