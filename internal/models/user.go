package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Username     string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:text" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Resumes      []Resume  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"resumes"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Resume is the metadata row for a stored résumé file. Filename is the name
// the user uploaded; FilePath points into the blob store.
type Resume struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"-"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Filename   string    `gorm:"type:text;not null" json:"filename"`
	FilePath   string    `gorm:"type:text;not null" json:"file_path"`
	PageCount  int       `json:"page_count"`
	UploadDate time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"upload_date"`
}

func (Resume) TableName() string {
	return "resumes"
}

// UserPatch lists the mutable user columns. Nil fields are left untouched.
type UserPatch struct {
	Email        *string
	PasswordHash *string
}
