package models

import "time"

// Teacher represents a teacher account stored in the teachers table.
type Teacher struct {
	ID                     string    `db:"id" json:"id"`
	Name                   string    `db:"name" json:"name"`
	Email                  string    `db:"email" json:"email"`
	PasswordHash           string    `db:"password_hash" json:"-"`
	Phone                  string    `db:"phone" json:"phone"`
	Discipline             string    `db:"discipline" json:"discipline"`
	EducationalInstitution string    `db:"educational_institution" json:"educational_institution"`
	Experience             string    `db:"experience" json:"experience"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}
