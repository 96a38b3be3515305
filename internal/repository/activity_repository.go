package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notoria-edu/classroom-api/internal/models"
)

// ActivityRepository handles persistence of classroom activities.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// CreateTx inserts an activity inside the caller's transaction so the
// submission cascade commits atomically with it.
func (r *ActivityRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	const query = `INSERT INTO activities (id, classroom_id, teacher_id, title, description, type, due_date, file_url, created_at, updated_at)
        VALUES (:id, :classroom_id, :teacher_id, :title, :description, :type, :due_date, :file_url, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, tx, query, activity); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// FindByIDAndTeacher returns an activity scoped to its owning teacher.
func (r *ActivityRepository) FindByIDAndTeacher(ctx context.Context, id, teacherID string) (*models.Activity, error) {
	const query = `SELECT id, classroom_id, teacher_id, title, description, type, due_date, file_url, created_at, updated_at
        FROM activities WHERE id = $1 AND teacher_id = $2`
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, id, teacherID); err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListByClassroom returns a classroom's activities ordered by due date.
func (r *ActivityRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.Activity, error) {
	const query = `SELECT id, classroom_id, teacher_id, title, description, type, due_date, file_url, created_at, updated_at
        FROM activities WHERE classroom_id = $1 ORDER BY due_date ASC NULLS LAST`
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, classroomID); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// ListIDsByClassroomTx returns activity ids for a classroom inside the
// caller's transaction. Feeds the enrollment cascade.
func (r *ActivityRepository) ListIDsByClassroomTx(ctx context.Context, tx *sqlx.Tx, classroomID string) ([]string, error) {
	const query = `SELECT id FROM activities WHERE classroom_id = $1`
	var ids []string
	if err := tx.SelectContext(ctx, &ids, query, classroomID); err != nil {
		return nil, fmt.Errorf("list activity ids: %w", err)
	}
	return ids, nil
}

// ListByClassroomWithStudentState returns a classroom's activities annotated
// with the given student's submission state.
func (r *ActivityRepository) ListByClassroomWithStudentState(ctx context.Context, classroomID, studentID string) ([]models.StudentActivity, error) {
	const query = `SELECT a.id, a.classroom_id, a.teacher_id, a.title, a.description, a.type, a.due_date, a.file_url, a.created_at, a.updated_at,
        s.status, s.grade, s.submitted_at
        FROM activities a
        LEFT JOIN submissions s ON s.activity_id = a.id AND s.student_id = $2
        WHERE a.classroom_id = $1
        ORDER BY a.due_date ASC NULLS LAST`
	rows, err := r.db.QueryxContext(ctx, query, classroomID, studentID)
	if err != nil {
		return nil, fmt.Errorf("list activities with state: %w", err)
	}
	defer rows.Close()

	var result []models.StudentActivity
	for rows.Next() {
		var activity models.Activity
		var status sql.NullString
		var grade sql.NullFloat64
		var submittedAt sql.NullTime
		if err := rows.Scan(&activity.ID, &activity.ClassroomID, &activity.TeacherID, &activity.Title, &activity.Description,
			&activity.Type, &activity.DueDate, &activity.FileURL, &activity.CreatedAt, &activity.UpdatedAt,
			&status, &grade, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan activity with state: %w", err)
		}
		item := models.StudentActivity{Activity: activity}
		if status.Valid {
			state := models.SubmissionState{Status: models.SubmissionStatus(status.String)}
			if grade.Valid {
				state.Grade = &grade.Float64
			}
			if submittedAt.Valid {
				ts := submittedAt.Time
				state.SubmittedAt = &ts
			}
			item.Submission = &state
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities with state: %w", err)
	}
	return result, nil
}

// Update persists changes to an activity scoped to the owning teacher.
func (r *ActivityRepository) Update(ctx context.Context, activity *models.Activity) (int64, error) {
	activity.UpdatedAt = time.Now().UTC()
	const query = `UPDATE activities SET title = :title, description = :description, type = :type, due_date = :due_date,
        file_url = :file_url, updated_at = :updated_at
        WHERE id = :id AND teacher_id = :teacher_id`
	res, err := r.db.NamedExecContext(ctx, query, activity)
	if err != nil {
		return 0, fmt.Errorf("update activity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update activity rows: %w", err)
	}
	return affected, nil
}

// Delete removes an activity scoped to the owning teacher. Submission rows
// go with it via ON DELETE CASCADE.
func (r *ActivityRepository) Delete(ctx context.Context, id, teacherID string) (int64, error) {
	const query = `DELETE FROM activities WHERE id = $1 AND teacher_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, teacherID)
	if err != nil {
		return 0, fmt.Errorf("delete activity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete activity rows: %w", err)
	}
	return affected, nil
}
