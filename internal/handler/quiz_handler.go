package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/quiz-builder-api/internal/domain/entity"
	"github.com/yourusername/quiz-builder-api/internal/handler/dto"
	apperrors "github.com/yourusername/quiz-builder-api/internal/pkg/errors"
	"github.com/yourusername/quiz-builder-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с викторинами
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// CreateQuizRequest представляет запрос на создание викторины.
// Структурная валидация вопросов выполняется в сервисе.
type CreateQuizRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Questions   []entity.Question `json:"questions"`
}

// CreateQuiz обрабатывает запрос на создание викторины
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.Create(req.Name, req.Description, req.Questions)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuizResponse(quiz))
}

// ListQuizzes возвращает все викторины
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.GetAll()
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizListResponse(quizzes))
}

// GetQuiz возвращает викторину по ID
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint) // Получаем из контекста

	quiz, err := h.quizService.GetByID(quizID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz))
}

// DeleteQuiz удаляет викторину и возвращает удаленную запись
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint) // Получаем из контекста

	quiz, err := h.quizService.Delete(quizID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz))
}

// ExportQuiz выгружает вопросы викторины в CSV или XLSX (?format=csv|xlsx)
func (h *QuizHandler) ExportQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetByID(quizID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz_%d", quiz.ID)
	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		h.exportCSV(c, quiz, filename)
	case "xlsx":
		h.exportXLSX(c, quiz, filename)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported export format %q", format)})
	}
}

var exportHeader = []string{"#", "Title", "Type", "Answer", "Placeholder", "Options"}

// exportRow формирует строку выгрузки для одного вопроса
func exportRow(index int, q *entity.Question) []string {
	return []string{
		strconv.Itoa(index + 1),
		q.Title,
		string(q.Type),
		answerLabel(q),
		q.Placeholder,
		optionsLabel(q.Options),
	}
}

// answerLabel возвращает читабельное представление ответа
func answerLabel(q *entity.Question) string {
	switch q.Answer.Kind() {
	case entity.AnswerText:
		return q.Answer.Text()
	case entity.AnswerBool:
		return strconv.FormatBool(q.Answer.Bool())
	case entity.AnswerOptionID:
		if opt, ok := q.OptionByID(q.Answer.OptionID()); ok {
			return fmt.Sprintf("%s (#%d)", opt.Text, opt.ID)
		}
		return fmt.Sprintf("#%d", q.Answer.OptionID())
	}
	return ""
}

func optionsLabel(options []entity.Option) string {
	if len(options) == 0 {
		return ""
	}
	parts := make([]string, len(options))
	for i, opt := range options {
		parts[i] = fmt.Sprintf("%d: %s", opt.ID, opt.Text)
	}
	return strings.Join(parts, "; ")
}

// exportCSV выгружает вопросы в CSV
func (h *QuizHandler) exportCSV(c *gin.Context, quiz *entity.Quiz, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	w := csv.NewWriter(c.Writer)
	if err := w.Write(exportHeader); err != nil {
		log.Printf("[QuizHandler] Ошибка записи CSV заголовка: %v", err)
		return
	}
	for i := range quiz.Questions {
		if err := w.Write(exportRow(i, &quiz.Questions[i])); err != nil {
			log.Printf("[QuizHandler] Ошибка записи CSV строки %d: %v", i+1, err)
			return
		}
	}
	w.Flush()
}

// exportXLSX выгружает вопросы в Excel с использованием StreamWriter
func (h *QuizHandler) exportXLSX(c *gin.Context, quiz *entity.Quiz, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Вопросы"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[QuizHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(exportHeader))
	for i, title := range exportHeader {
		headers[i] = title
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[QuizHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range quiz.Questions {
		row := exportRow(i, &quiz.Questions[i])
		cells := make([]interface{}, len(row))
		for j, value := range row {
			cells[j] = value
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, cells); err != nil {
			log.Printf("[QuizHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[QuizHandler] Ошибка Flush StreamWriter: %v", err)
		return
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[QuizHandler] Ошибка записи XLSX в ответ: %v", err)
	}
}

// handleQuizError обрабатывает ошибки от сервиса викторин и отправляет соответствующий HTTP ответ
func (h *QuizHandler) handleQuizError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in QuizHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
