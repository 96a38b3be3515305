package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notoria-edu/classroom-api/internal/models"
)

// EnrollmentRepository handles persistence of classroom memberships.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindByStudentAndClassroom returns the membership edge for a pair.
func (r *EnrollmentRepository) FindByStudentAndClassroom(ctx context.Context, studentID, classroomID string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, classroom_id, score, enrolled_at FROM enrollments WHERE student_id = $1 AND classroom_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, classroomID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// CreateTx inserts the membership edge inside the caller's transaction so the
// submission cascade commits atomically with it.
func (r *EnrollmentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (id, student_id, classroom_id, score, enrolled_at)
        VALUES (:id, :student_id, :classroom_id, :score, :enrolled_at)`
	if _, err := sqlx.NamedExecContext(ctx, tx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// DeleteTx removes the membership edge inside the caller's transaction.
func (r *EnrollmentRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id string) error {
	const query = `DELETE FROM enrollments WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// UpdateScore sets the score on an existing membership edge.
func (r *EnrollmentRepository) UpdateScore(ctx context.Context, studentID, classroomID string, score float64) (int64, error) {
	const query = `UPDATE enrollments SET score = $3 WHERE student_id = $1 AND classroom_id = $2`
	res, err := r.db.ExecContext(ctx, query, studentID, classroomID, score)
	if err != nil {
		return 0, fmt.Errorf("update score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update score rows: %w", err)
	}
	return affected, nil
}

// ListStudentsByClassroom returns the enrolled students with their scores.
func (r *EnrollmentRepository) ListStudentsByClassroom(ctx context.Context, classroomID string) ([]models.EnrolledStudent, error) {
	const query = `SELECT s.id, s.name, s.email, e.score
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        WHERE e.classroom_id = $1
        ORDER BY s.name ASC`
	var students []models.EnrolledStudent
	if err := r.db.SelectContext(ctx, &students, query, classroomID); err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}
	return students, nil
}

// ListClassmates returns the other students enrolled in a classroom, caller
// excluded.
func (r *EnrollmentRepository) ListClassmates(ctx context.Context, classroomID, excludeStudentID string) ([]models.StudentInfo, error) {
	const query = `SELECT s.id, s.name, s.email
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        WHERE e.classroom_id = $1 AND e.student_id <> $2
        ORDER BY s.name ASC`
	var students []models.StudentInfo
	if err := r.db.SelectContext(ctx, &students, query, classroomID, excludeStudentID); err != nil {
		return nil, fmt.Errorf("list classmates: %w", err)
	}
	return students, nil
}

// ListStudentIDsByClassroomTx returns the ids of currently enrolled students
// inside the caller's transaction. Feeds the activity-creation cascade.
func (r *EnrollmentRepository) ListStudentIDsByClassroomTx(ctx context.Context, tx *sqlx.Tx, classroomID string) ([]string, error) {
	const query = `SELECT student_id FROM enrollments WHERE classroom_id = $1`
	var ids []string
	if err := tx.SelectContext(ctx, &ids, query, classroomID); err != nil {
		return nil, fmt.Errorf("list enrolled student ids: %w", err)
	}
	return ids, nil
}
