package dto

import "io"

// UploadFile carries a single multipart file part into the service layer.
type UploadFile struct {
	Reader   io.Reader
	FileName string
}

type CreateStudentInput struct {
	Name         string  `form:"name" binding:"required"`
	Gender       *string `form:"gender"`
	DateOfBirth  *string `form:"date_of_birth"`
	MobileNumber *string `form:"mobile_number"`
	Department   *string `form:"department"`
	YearOfStudy  *string `form:"year_of_study"`
	RollNumber   *string `form:"roll_number"`
}

// UpdateStudentInput uses pointers so that absent fields are left untouched.
type UpdateStudentInput struct {
	Name         *string `form:"name"`
	Gender       *string `form:"gender"`
	DateOfBirth  *string `form:"date_of_birth"`
	MobileNumber *string `form:"mobile_number"`
	Department   *string `form:"department"`
	YearOfStudy  *string `form:"year_of_study"`
	RollNumber   *string `form:"roll_number"`
}

func (in *UpdateStudentInput) Empty() bool {
	return !set(in.Name) && !set(in.Gender) && !set(in.DateOfBirth) &&
		!set(in.MobileNumber) && !set(in.Department) && !set(in.YearOfStudy) &&
		!set(in.RollNumber)
}

func set(s *string) bool {
	return s != nil && *s != ""
}
