package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/campusgrid/studentportal/internal/dto"
	"github.com/campusgrid/studentportal/internal/service"
	"github.com/campusgrid/studentportal/pkg/response"
	"github.com/campusgrid/studentportal/pkg/validator"
	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	studentService service.StudentService
}

func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var input dto.CreateStudentInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var photo *dto.UploadFile
	if fileHeader, err := c.FormFile("photo"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
			return
		}
		defer file.Close()

		photo = &dto.UploadFile{Reader: file, FileName: fileHeader.Filename}
	}

	var document *dto.UploadFile
	if fileHeader, err := c.FormFile("document"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read document"})
			return
		}
		defer file.Close()

		document = &dto.UploadFile{Reader: file, FileName: fileHeader.Filename}
	}

	student, err := h.studentService.Create(c.Request.Context(), input, photo, document)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

func (h *StudentHandler) GetStudents(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) GetStudentByID(c *gin.Context) {
	student, err := h.studentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var input dto.UpdateStudentInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var photo *dto.UploadFile
	if fileHeader, err := c.FormFile("photo"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
			return
		}
		defer file.Close()

		photo = &dto.UploadFile{Reader: file, FileName: fileHeader.Filename}
	}

	var document *dto.UploadFile
	if fileHeader, err := c.FormFile("document"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read document"})
			return
		}
		defer file.Close()

		document = &dto.UploadFile{Reader: file, FileName: fileHeader.Filename}
	}

	student, err := h.studentService.Update(c.Request.Context(), c.Param("id"), input, photo, document)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	if err := h.studentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Student and files deleted permanently",
	})
}

func (h *StudentHandler) DownloadFile(c *gin.Context) {
	relPath := strings.TrimPrefix(c.Param("filepath"), "/")

	abs, err := h.studentService.ResolveFile(c.Request.Context(), relPath)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.FileAttachment(abs, filepath.Base(abs))
}
