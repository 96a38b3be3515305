package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notoria-edu/classroom-api/internal/models"
)

// ClassroomRepository handles persistence of classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs the repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// Create persists a new classroom.
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	if classroom.ID == "" {
		classroom.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	classroom.CreatedAt = now
	classroom.UpdatedAt = now
	const query = `INSERT INTO classrooms (id, name, teacher_id, created_at, updated_at)
        VALUES (:id, :name, :teacher_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, classroom); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

// FindByIDAndTeacher returns a classroom scoped to its owning teacher.
func (r *ClassroomRepository) FindByIDAndTeacher(ctx context.Context, id, teacherID string) (*models.Classroom, error) {
	const query = `SELECT id, name, teacher_id, created_at, updated_at FROM classrooms WHERE id = $1 AND teacher_id = $2`
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id, teacherID); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// FindByIDForStudent returns a classroom only when the student holds an
// enrollment for it.
func (r *ClassroomRepository) FindByIDForStudent(ctx context.Context, id, studentID string) (*models.Classroom, error) {
	const query = `SELECT c.id, c.name, c.teacher_id, c.created_at, c.updated_at
        FROM classrooms c
        JOIN enrollments e ON e.classroom_id = c.id
        WHERE c.id = $1 AND e.student_id = $2`
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id, studentID); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// ListByTeacher returns a teacher's classrooms with enrolled student counts.
func (r *ClassroomRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassroomSummary, error) {
	const query = `SELECT c.id, c.name, COUNT(e.id) AS student_count
        FROM classrooms c
        LEFT JOIN enrollments e ON e.classroom_id = c.id
        WHERE c.teacher_id = $1
        GROUP BY c.id, c.name
        ORDER BY c.name ASC`
	var summaries []models.ClassroomSummary
	if err := r.db.SelectContext(ctx, &summaries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return summaries, nil
}

// ListByStudent returns the classrooms a student is enrolled in.
func (r *ClassroomRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Classroom, error) {
	const query = `SELECT c.id, c.name, c.teacher_id, c.created_at, c.updated_at
        FROM classrooms c
        JOIN enrollments e ON e.classroom_id = c.id
        WHERE e.student_id = $1
        ORDER BY c.name ASC`
	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, query, studentID); err != nil {
		return nil, fmt.Errorf("list student classrooms: %w", err)
	}
	return classrooms, nil
}

// UpdateName renames a classroom scoped to the owning teacher.
func (r *ClassroomRepository) UpdateName(ctx context.Context, id, teacherID, name string) (int64, error) {
	const query = `UPDATE classrooms SET name = $3, updated_at = $4 WHERE id = $1 AND teacher_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, teacherID, name, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("update classroom: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update classroom rows: %w", err)
	}
	return affected, nil
}

// Delete removes a classroom scoped to the owning teacher.
func (r *ClassroomRepository) Delete(ctx context.Context, id, teacherID string) (int64, error) {
	const query = `DELETE FROM classrooms WHERE id = $1 AND teacher_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, teacherID)
	if err != nil {
		return 0, fmt.Errorf("delete classroom: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete classroom rows: %w", err)
	}
	return affected, nil
}
