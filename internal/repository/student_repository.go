package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notoria-edu/classroom-api/internal/models"
)

// StudentRepository handles persistence of student accounts.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create persists a new student account.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, name, email, password_hash, teacher_id, created_at, updated_at)
        VALUES (:id, :name, :email, :password_hash, :teacher_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// FindByEmail returns a student by unique email.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	const query = `SELECT id, name, email, password_hash, teacher_id, created_at, updated_at FROM students WHERE email = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByID returns a student by id without an ownership filter. Used only
// where the caller IS the student (chat peer lookup, password change).
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, name, email, password_hash, teacher_id, created_at, updated_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByIDAndTeacher returns a student scoped to its owning teacher.
func (r *StudentRepository) FindByIDAndTeacher(ctx context.Context, id, teacherID string) (*models.Student, error) {
	const query = `SELECT id, name, email, password_hash, teacher_id, created_at, updated_at
        FROM students WHERE id = $1 AND teacher_id = $2`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, teacherID); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListByTeacher returns all students owned by a teacher.
func (r *StudentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Student, error) {
	const query = `SELECT id, name, email, password_hash, teacher_id, created_at, updated_at
        FROM students WHERE teacher_id = $1 ORDER BY name ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, teacherID); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Update persists changes to a student scoped to the owning teacher. Returns
// the number of affected rows so callers can map zero to not-found.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) (int64, error) {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, email = :email, password_hash = :password_hash, updated_at = :updated_at
        WHERE id = :id AND teacher_id = :teacher_id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return 0, fmt.Errorf("update student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update student rows: %w", err)
	}
	return affected, nil
}

// UpdatePassword replaces the password hash for a student.
func (r *StudentRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE students SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update student password: %w", err)
	}
	return nil
}

// Delete removes a student scoped to the owning teacher.
func (r *StudentRepository) Delete(ctx context.Context, id, teacherID string) (int64, error) {
	const query = `DELETE FROM students WHERE id = $1 AND teacher_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, teacherID)
	if err != nil {
		return 0, fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete student rows: %w", err)
	}
	return affected, nil
}
