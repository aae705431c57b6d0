package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Gender       *string   `gorm:"size:20" json:"gender,omitempty"`
	DateOfBirth  *string   `gorm:"size:20" json:"date_of_birth,omitempty"`
	MobileNumber *string   `gorm:"size:20" json:"mobile_number,omitempty"`
	Department   *string   `gorm:"size:100" json:"department,omitempty"`
	YearOfStudy  *string   `gorm:"size:20" json:"year_of_study,omitempty"`
	RollNumber   *string   `gorm:"size:50;uniqueIndex" json:"roll_number,omitempty"`
	PhotoPath    *string   `gorm:"type:text" json:"photo_path,omitempty"`
	DocumentPath *string   `gorm:"type:text" json:"document_path,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
