package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notoria-edu/classroom-api/internal/models"
)

// SubmissionRepository handles persistence of activity submissions.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// SubmissionSeed identifies one pending submission row to materialize.
type SubmissionSeed struct {
	StudentID  string
	ActivityID string
}

// BulkCreatePendingTx inserts pending submissions for the given pairs inside
// the caller's transaction. Existing (student, activity) rows are skipped so
// re-running a cascade is a no-op.
func (r *SubmissionRepository) BulkCreatePendingTx(ctx context.Context, tx *sqlx.Tx, seeds []SubmissionSeed) error {
	if len(seeds) == 0 {
		return nil
	}
	placeholders := make([]string, len(seeds))
	args := make([]interface{}, 0, len(seeds)*4)
	for i, seed := range seeds {
		base := i * 4
		placeholders[i] = fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4)
		args = append(args, uuid.NewString(), seed.StudentID, seed.ActivityID, models.SubmissionStatusPending)
	}
	query := fmt.Sprintf(`INSERT INTO submissions (id, student_id, activity_id, status) VALUES %s
        ON CONFLICT (student_id, activity_id) DO NOTHING`, strings.Join(placeholders, ", "))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bulk create submissions: %w", err)
	}
	return nil
}

// DeleteByClassroomStudentTx removes a student's submissions for every
// activity of a classroom, inside the caller's transaction. Runs as part of
// the unenroll cascade.
func (r *SubmissionRepository) DeleteByClassroomStudentTx(ctx context.Context, tx *sqlx.Tx, studentID, classroomID string) error {
	const query = `DELETE FROM submissions
        WHERE student_id = $1 AND activity_id IN (SELECT id FROM activities WHERE classroom_id = $2)`
	if _, err := tx.ExecContext(ctx, query, studentID, classroomID); err != nil {
		return fmt.Errorf("delete classroom submissions: %w", err)
	}
	return nil
}

// ownedSubmission pairs a submission with its activity's owning teacher.
type ownedSubmission struct {
	models.Submission
	ActivityTeacherID string `db:"activity_teacher_id"`
}

// FindWithOwner returns a submission together with the owning teacher of its
// activity.
func (r *SubmissionRepository) FindWithOwner(ctx context.Context, id string) (*models.Submission, string, error) {
	const query = `SELECT s.id, s.student_id, s.activity_id, s.status, s.grade, s.content, s.file_url, s.submitted_at,
        a.teacher_id AS activity_teacher_id
        FROM submissions s
        JOIN activities a ON a.id = s.activity_id
        WHERE s.id = $1`
	var row ownedSubmission
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, "", err
	}
	return &row.Submission, row.ActivityTeacherID, nil
}

// FindDetailByIDForTeacher returns a submission with context, scoped to the
// teacher owning its activity.
func (r *SubmissionRepository) FindDetailByIDForTeacher(ctx context.Context, id, teacherID string) (*models.SubmissionDetail, error) {
	const query = `SELECT s.id, s.student_id, s.activity_id, s.status, s.grade, s.content, s.file_url, s.submitted_at,
        st.name AS student_name, a.title AS activity_title
        FROM submissions s
        JOIN activities a ON a.id = s.activity_id
        JOIN students st ON st.id = s.student_id
        WHERE s.id = $1 AND a.teacher_id = $2`
	var detail models.SubmissionDetail
	if err := r.db.GetContext(ctx, &detail, query, id, teacherID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateGrade sets the grade on a submission and returns the updated row.
func (r *SubmissionRepository) UpdateGrade(ctx context.Context, id string, grade float64) (*models.Submission, error) {
	const query = `UPDATE submissions SET grade = $2 WHERE id = $1
        RETURNING id, student_id, activity_id, status, grade, content, file_url, submitted_at`
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id, grade); err != nil {
		return nil, fmt.Errorf("grade submission: %w", err)
	}
	return &submission, nil
}

// ListByTeacher returns every submission across the teacher's activities.
func (r *SubmissionRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.SubmissionDetail, error) {
	const query = `SELECT s.id, s.student_id, s.activity_id, s.status, s.grade, s.content, s.file_url, s.submitted_at,
        st.name AS student_name, a.title AS activity_title
        FROM submissions s
        JOIN activities a ON a.id = s.activity_id
        JOIN students st ON st.id = s.student_id
        WHERE a.teacher_id = $1
        ORDER BY s.submitted_at DESC NULLS LAST`
	var submissions []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &submissions, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher submissions: %w", err)
	}
	return submissions, nil
}

// ListByActivity returns the submissions for one activity.
func (r *SubmissionRepository) ListByActivity(ctx context.Context, activityID string) ([]models.SubmissionDetail, error) {
	const query = `SELECT s.id, s.student_id, s.activity_id, s.status, s.grade, s.content, s.file_url, s.submitted_at,
        st.name AS student_name, a.title AS activity_title
        FROM submissions s
        JOIN activities a ON a.id = s.activity_id
        JOIN students st ON st.id = s.student_id
        WHERE s.activity_id = $1
        ORDER BY s.submitted_at DESC NULLS LAST`
	var submissions []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &submissions, query, activityID); err != nil {
		return nil, fmt.Errorf("list activity submissions: %w", err)
	}
	return submissions, nil
}

// ListByClassroomAndStudent returns a student's submissions for a classroom's
// activities, scoped to the owning teacher.
func (r *SubmissionRepository) ListByClassroomAndStudent(ctx context.Context, classroomID, studentID, teacherID string) ([]models.Submission, error) {
	const query = `SELECT s.id, s.student_id, s.activity_id, s.status, s.grade, s.content, s.file_url, s.submitted_at
        FROM submissions s
        JOIN activities a ON a.id = s.activity_id
        WHERE a.classroom_id = $1 AND a.teacher_id = $2 AND s.student_id = $3`
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, classroomID, teacherID, studentID); err != nil {
		return nil, fmt.Errorf("list classroom student submissions: %w", err)
	}
	return submissions, nil
}

// ListByStudent returns all of a student's submissions with activity info.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubmission, error) {
	const query = `SELECT s.id, s.student_id, s.activity_id, s.status, s.grade, s.content, s.file_url, s.submitted_at,
        a.title AS activity_title, a.type AS activity_type, a.due_date
        FROM submissions s
        JOIN activities a ON a.id = s.activity_id
        WHERE s.student_id = $1
        ORDER BY a.due_date ASC NULLS LAST`
	var submissions []models.StudentSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, studentID); err != nil {
		return nil, fmt.Errorf("list student submissions: %w", err)
	}
	return submissions, nil
}

// ListByStudentAndClassroom returns a student's submissions restricted to one
// classroom.
func (r *SubmissionRepository) ListByStudentAndClassroom(ctx context.Context, studentID, classroomID string) ([]models.StudentSubmission, error) {
	const query = `SELECT s.id, s.student_id, s.activity_id, s.status, s.grade, s.content, s.file_url, s.submitted_at,
        a.title AS activity_title, a.type AS activity_type, a.due_date
        FROM submissions s
        JOIN activities a ON a.id = s.activity_id
        WHERE s.student_id = $1 AND a.classroom_id = $2
        ORDER BY a.due_date ASC NULLS LAST`
	var submissions []models.StudentSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, studentID, classroomID); err != nil {
		return nil, fmt.Errorf("list student classroom submissions: %w", err)
	}
	return submissions, nil
}

// Submit marks the student's existing submission as completed. Returns the
// number of affected rows; zero means no materialized row exists for the
// pair, so the student was never enrolled when the cascades ran.
func (r *SubmissionRepository) Submit(ctx context.Context, studentID, activityID string, content, fileURL *string) (int64, error) {
	const query = `UPDATE submissions SET content = $3, file_url = $4, status = $5, submitted_at = $6
        WHERE student_id = $1 AND activity_id = $2`
	res, err := r.db.ExecContext(ctx, query, studentID, activityID, content, fileURL, models.SubmissionStatusCompleted, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("submit activity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("submit activity rows: %w", err)
	}
	return affected, nil
}

// ResetOwn clears a student's submission for an activity back to PENDING.
// The row itself stays: submission rows mirror membership, so only the
// unenroll and delete cascades may remove them.
func (r *SubmissionRepository) ResetOwn(ctx context.Context, studentID, activityID string) (int64, error) {
	const query = `UPDATE submissions SET status = $3, content = NULL, file_url = NULL, submitted_at = NULL, grade = NULL
        WHERE student_id = $1 AND activity_id = $2`
	res, err := r.db.ExecContext(ctx, query, studentID, activityID, models.SubmissionStatusPending)
	if err != nil {
		return 0, fmt.Errorf("reset submission: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset submission rows: %w", err)
	}
	return affected, nil
}
