package service

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/campusgrid/studentportal/internal/dto"
	"github.com/campusgrid/studentportal/internal/model"
	"github.com/campusgrid/studentportal/internal/repository"
	"github.com/campusgrid/studentportal/pkg/apperror"
	"github.com/campusgrid/studentportal/pkg/storage"
	"gorm.io/gorm"
)

// orphanMinAge keeps the cleanup sweep from racing an upload whose row has
// not been written yet.
const orphanMinAge = 24 * time.Hour

type StudentService interface {
	Create(ctx context.Context, input dto.CreateStudentInput, photo, document *dto.UploadFile) (*model.Student, error)
	List(ctx context.Context) ([]*model.Student, error)
	GetByID(ctx context.Context, id string) (*model.Student, error)
	Update(ctx context.Context, id string, input dto.UpdateStudentInput, photo, document *dto.UploadFile) (*model.Student, error)
	Delete(ctx context.Context, id string) error
	ResolveFile(ctx context.Context, relPath string) (string, error)
	CleanupOrphanFiles(ctx context.Context) error
}

type studentService struct {
	repo        repository.StudentRepository
	fileStorage storage.FileStorage
}

func NewStudentService(repo repository.StudentRepository, fileStorage storage.FileStorage) StudentService {
	return &studentService{
		repo:        repo,
		fileStorage: fileStorage,
	}
}

func (s *studentService) Create(ctx context.Context, input dto.CreateStudentInput, photo, document *dto.UploadFile) (*model.Student, error) {
	if input.Name == "" {
		return nil, apperror.New(http.StatusBadRequest, "name is required", apperror.ErrInvalidInput)
	}

	student := &model.Student{
		Name:         input.Name,
		Gender:       nonEmpty(input.Gender),
		DateOfBirth:  nonEmpty(input.DateOfBirth),
		MobileNumber: nonEmpty(input.MobileNumber),
		Department:   nonEmpty(input.Department),
		YearOfStudy:  nonEmpty(input.YearOfStudy),
		RollNumber:   nonEmpty(input.RollNumber),
	}

	var saved []string
	if photo != nil {
		relPath, err := s.fileStorage.Save(ctx, photo.Reader, storage.KindPhoto, photo.FileName)
		if err != nil {
			return nil, err
		}
		student.PhotoPath = &relPath
		saved = append(saved, relPath)
	}
	if document != nil {
		relPath, err := s.fileStorage.Save(ctx, document.Reader, storage.KindDocument, document.FileName)
		if err != nil {
			s.removeFiles(ctx, saved)
			return nil, err
		}
		student.DocumentPath = &relPath
		saved = append(saved, relPath)
	}

	if err := s.repo.Create(ctx, student); err != nil {
		s.removeFiles(ctx, saved)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(http.StatusConflict, "roll number already in use", apperror.ErrConflict)
		}
		return nil, err
	}

	return student, nil
}

func (s *studentService) List(ctx context.Context) ([]*model.Student, error) {
	return s.repo.FindAll(ctx)
}

func (s *studentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "student not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	return student, nil
}

func (s *studentService) Update(ctx context.Context, id string, input dto.UpdateStudentInput, photo, document *dto.UploadFile) (*model.Student, error) {
	if input.Empty() && photo == nil && document == nil {
		return nil, apperror.New(http.StatusBadRequest, "no fields provided for update", apperror.ErrInvalidInput)
	}

	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyField(&student.Name, input.Name)
	applyOptional(&student.Gender, input.Gender)
	applyOptional(&student.DateOfBirth, input.DateOfBirth)
	applyOptional(&student.MobileNumber, input.MobileNumber)
	applyOptional(&student.Department, input.Department)
	applyOptional(&student.YearOfStudy, input.YearOfStudy)
	applyOptional(&student.RollNumber, input.RollNumber)

	var saved, replaced []string
	if photo != nil {
		relPath, err := s.fileStorage.Save(ctx, photo.Reader, storage.KindPhoto, photo.FileName)
		if err != nil {
			return nil, err
		}
		if student.PhotoPath != nil {
			replaced = append(replaced, *student.PhotoPath)
		}
		student.PhotoPath = &relPath
		saved = append(saved, relPath)
	}
	if document != nil {
		relPath, err := s.fileStorage.Save(ctx, document.Reader, storage.KindDocument, document.FileName)
		if err != nil {
			s.removeFiles(ctx, saved)
			return nil, err
		}
		if student.DocumentPath != nil {
			replaced = append(replaced, *student.DocumentPath)
		}
		student.DocumentPath = &relPath
		saved = append(saved, relPath)
	}

	if err := s.repo.Update(ctx, student); err != nil {
		s.removeFiles(ctx, saved)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(http.StatusConflict, "roll number already in use", apperror.ErrConflict)
		}
		return nil, err
	}

	// Replaced files are removed only after the row is committed.
	s.removeFiles(ctx, replaced)

	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Best effort: a failed file delete is logged, never propagated.
	var paths []string
	if student.PhotoPath != nil {
		paths = append(paths, *student.PhotoPath)
	}
	if student.DocumentPath != nil {
		paths = append(paths, *student.DocumentPath)
	}
	s.removeFiles(ctx, paths)

	return s.repo.Delete(ctx, id)
}

func (s *studentService) ResolveFile(ctx context.Context, relPath string) (string, error) {
	abs, err := s.fileStorage.Resolve(relPath)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperror.New(http.StatusNotFound, "file not found", apperror.ErrNotFound)
		}
		return "", err
	}

	return abs, nil
}

// CleanupOrphanFiles removes upload-root files no student row references.
// Files younger than orphanMinAge are skipped so in-flight creates are not
// swept out from under their row insert.
func (s *studentService) CleanupOrphanFiles(ctx context.Context) error {
	files, err := s.fileStorage.List(ctx)
	if err != nil {
		return err
	}

	students, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}

	referenced := make(map[string]struct{}, len(students)*2)
	for _, student := range students {
		if student.PhotoPath != nil {
			referenced[*student.PhotoPath] = struct{}{}
		}
		if student.DocumentPath != nil {
			referenced[*student.DocumentPath] = struct{}{}
		}
	}

	cutoff := time.Now().Add(-orphanMinAge)
	for _, f := range files {
		if _, ok := referenced[f.RelPath]; ok {
			continue
		}
		if f.ModTime.After(cutoff) {
			continue
		}
		if err := s.fileStorage.Delete(ctx, f.RelPath); err != nil {
			log.Printf("Failed to delete orphan file %s: %v", f.RelPath, err)
		}
	}

	return nil
}

func (s *studentService) removeFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.fileStorage.Delete(ctx, p); err != nil {
			log.Printf("Failed to delete file %s: %v", p, err)
		}
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func applyField(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}

func applyOptional(dst **string, src *string) {
	if src != nil && *src != "" {
		*dst = src
	}
}
