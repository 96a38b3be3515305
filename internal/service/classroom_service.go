package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/notoria-edu/classroom-api/internal/models"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
	"github.com/notoria-edu/classroom-api/pkg/export"
)

type classroomRepository interface {
	Create(ctx context.Context, classroom *models.Classroom) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassroomSummary, error)
	UpdateName(ctx context.Context, id, teacherID, name string) (int64, error)
	Delete(ctx context.Context, id, teacherID string) (int64, error)
}

type enrolledStudentLister interface {
	ListStudentsByClassroom(ctx context.Context, classroomID string) ([]models.EnrolledStudent, error)
}

type classroomCache interface {
	GetClassroomSummaries(ctx context.Context, teacherID string) ([]models.ClassroomSummary, error)
	SetClassroomSummaries(ctx context.Context, teacherID string, summaries []models.ClassroomSummary) error
	InvalidateTeacher(ctx context.Context, teacherID string)
}

// ReportFormat selects the rendering of a classroom score report.
type ReportFormat string

// Supported report formats.
const (
	ReportFormatPDF ReportFormat = "pdf"
	ReportFormatCSV ReportFormat = "csv"
)

// Report is a rendered classroom score report.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ClassroomService manages classrooms and their score reports.
type ClassroomService struct {
	repo        classroomRepository
	enrollments enrolledStudentLister
	cache       classroomCache
	access      *AccessService
	metrics     *MetricsService
	pdf         *export.PDFExporter
	csv         *export.CSVExporter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewClassroomService constructs a ClassroomService instance.
func NewClassroomService(repo classroomRepository, enrollments enrolledStudentLister, cache classroomCache, access *AccessService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassroomService{
		repo:        repo,
		enrollments: enrollments,
		cache:       cache,
		access:      access,
		metrics:     metrics,
		pdf:         export.NewPDFExporter(),
		csv:         export.NewCSVExporter(),
		validator:   validate,
		logger:      logger,
	}
}

// Create adds a classroom owned by the calling teacher.
func (s *ClassroomService) Create(ctx context.Context, teacherID string, req models.CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}

	classroom := &models.Classroom{Name: req.Name, TeacherID: teacherID}
	if err := s.repo.Create(ctx, classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom")
	}

	s.cache.InvalidateTeacher(ctx, teacherID)
	s.logger.Info("classroom created", zap.String("classroom_id", classroom.ID), zap.String("teacher_id", teacherID))
	return classroom, nil
}

// List returns the calling teacher's classrooms with student counts, served
// from cache when warm.
func (s *ClassroomService) List(ctx context.Context, teacherID string) ([]models.ClassroomSummary, error) {
	if summaries, err := s.cache.GetClassroomSummaries(ctx, teacherID); err == nil {
		s.metrics.RecordCacheLookup(true)
		return summaries, nil
	}
	s.metrics.RecordCacheLookup(false)

	summaries, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}

	if err := s.cache.SetClassroomSummaries(ctx, teacherID, summaries); err != nil {
		s.logger.Warn("failed to cache classroom summaries", zap.String("teacher_id", teacherID), zap.Error(err))
	}
	return summaries, nil
}

// Get returns one classroom owned by the calling teacher.
func (s *ClassroomService) Get(ctx context.Context, classroomID, teacherID string) (*models.Classroom, error) {
	return s.access.ClassroomOwnedBy(ctx, classroomID, teacherID)
}

// Rename changes a classroom's name.
func (s *ClassroomService) Rename(ctx context.Context, classroomID, teacherID string, req models.UpdateClassroomRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}

	affected, err := s.repo.UpdateName(ctx, classroomID, teacherID, req.Name)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update classroom")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
	}

	s.cache.InvalidateTeacher(ctx, teacherID)
	return nil
}

// Delete removes a classroom. Enrollments, activities and submissions go with
// it via ON DELETE CASCADE.
func (s *ClassroomService) Delete(ctx context.Context, classroomID, teacherID string) error {
	affected, err := s.repo.Delete(ctx, classroomID, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete classroom")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
	}

	s.cache.InvalidateTeacher(ctx, teacherID)
	s.logger.Info("classroom deleted", zap.String("classroom_id", classroomID), zap.String("teacher_id", teacherID))
	return nil
}

// ScoreReport renders the classroom roster with scores as PDF or CSV.
func (s *ClassroomService) ScoreReport(ctx context.Context, classroomID, teacherID string, format ReportFormat) (*Report, error) {
	classroom, err := s.access.ClassroomOwnedBy(ctx, classroomID, teacherID)
	if err != nil {
		return nil, err
	}

	students, err := s.enrollments.ListStudentsByClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled students")
	}

	sheet := export.ScoreSheet{Title: classroom.Name, Columns: []string{"Name", "Email", "Score"}}
	for _, student := range students {
		score := "-"
		if student.Score != nil {
			score = fmt.Sprintf("%.1f", *student.Score)
		}
		sheet.Rows = append(sheet.Rows, []string{student.Name, student.Email, score})
	}

	base := fmt.Sprintf("classroom-%s-scores", slugify(classroom.Name))
	switch format {
	case ReportFormatCSV:
		content, err := s.csv.Render(sheet)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &Report{FileName: base + ".csv", ContentType: "text/csv", Content: content}, nil
	case ReportFormatPDF:
		content, err := s.pdf.Render(sheet)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &Report{FileName: base + ".pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
}

func slugify(raw string) string {
	slug := strings.ToLower(strings.TrimSpace(raw))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	return strings.Trim(slug, "-")
}
