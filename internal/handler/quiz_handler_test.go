package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/quiz-builder-api/internal/domain/entity"
	"github.com/yourusername/quiz-builder-api/internal/middleware"
	apperrors "github.com/yourusername/quiz-builder-api/internal/pkg/errors"
	"github.com/yourusername/quiz-builder-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memQuizRepo — репозиторий в памяти для тестов HTTP слоя
type memQuizRepo struct {
	nextID  uint
	records map[uint]entity.Quiz
}

func newMemQuizRepo() *memQuizRepo {
	return &memQuizRepo{nextID: 1, records: make(map[uint]entity.Quiz)}
}

func (m *memQuizRepo) Create(quiz *entity.Quiz) error {
	quiz.ID = m.nextID
	m.nextID++
	m.records[quiz.ID] = *quiz
	return nil
}

func (m *memQuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	quiz, ok := m.records[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &quiz, nil
}

func (m *memQuizRepo) GetAll() ([]entity.Quiz, error) {
	quizzes := make([]entity.Quiz, 0, len(m.records))
	for id := uint(1); id < m.nextID; id++ {
		if quiz, ok := m.records[id]; ok {
			quizzes = append(quizzes, quiz)
		}
	}
	return quizzes, nil
}

func (m *memQuizRepo) Delete(id uint) error {
	if _, ok := m.records[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// newTestRouter собирает маршруты так же, как cmd/api
func newTestRouter(repo *memQuizRepo) *gin.Engine {
	handler := NewQuizHandler(service.NewQuizService(repo))

	router := gin.New()
	quiz := router.Group("/api/quiz")
	{
		quiz.GET("", handler.ListQuizzes)
		quiz.POST("", handler.CreateQuiz)

		quizWithID := quiz.Group("/:id")
		quizWithID.Use(middleware.ExtractUintParam("id", "quizID"))
		{
			quizWithID.GET("", handler.GetQuiz)
			quizWithID.GET("/export", handler.ExportQuiz)
			quizWithID.DELETE("", handler.DeleteQuiz)
		}
	}
	return router
}

// seedQuiz добавляет в репозиторий викторину со всеми тремя типами вопросов
func seedQuiz(repo *memQuizRepo) entity.Quiz {
	quiz := entity.Quiz{
		Name: "Гео",
		Questions: entity.QuestionList{
			{
				Title:       "Столица Франции?",
				Type:        entity.QuestionTypeShortText,
				Placeholder: "Введите город",
				Answer:      entity.TextAnswer("Париж"),
			},
			{
				Title:  "Земля плоская?",
				Type:   entity.QuestionTypeBoolean,
				Answer: entity.BoolAnswer(false),
			},
			{
				Title: "Самая длинная река?",
				Type:  entity.QuestionTypeMultipleChoice,
				Options: []entity.Option{
					{ID: 1, Text: "Нил"},
					{ID: 2, Text: "Амазонка"},
				},
				Answer: entity.OptionAnswer(2),
			},
		},
	}
	_ = repo.Create(&quiz)
	return quiz
}

func doRequest(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	router.ServeHTTP(w, req)
	return w
}

// ============================================================================
// Выгрузка вопросов
// ============================================================================

func TestExportQuiz_CSV(t *testing.T) {
	repo := newMemQuizRepo()
	seedQuiz(repo)
	router := newTestRouter(repo)

	w := doRequest(router, http.MethodGet, "/api/quiz/1/export?format=csv", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="quiz_1.csv"`, w.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4, "заголовок и по строке на каждый вопрос")
	assert.Equal(t, []string{"#", "Title", "Type", "Answer", "Placeholder", "Options"}, rows[0])
	assert.Equal(t, []string{"1", "Столица Франции?", "short-text", "Париж", "Введите город", ""}, rows[1])
	assert.Equal(t, []string{"2", "Земля плоская?", "boolean", "false", "", ""}, rows[2])
	assert.Equal(t, []string{"3", "Самая длинная река?", "multiple-choice", "Амазонка (#2)", "", "1: Нил; 2: Амазонка"}, rows[3])
}

func TestExportQuiz_DefaultFormatIsCSV(t *testing.T) {
	repo := newMemQuizRepo()
	seedQuiz(repo)
	router := newTestRouter(repo)

	w := doRequest(router, http.MethodGet, "/api/quiz/1/export", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestExportQuiz_XLSX(t *testing.T) {
	repo := newMemQuizRepo()
	seedQuiz(repo)
	router := newTestRouter(repo)

	w := doRequest(router, http.MethodGet, "/api/quiz/1/export?format=xlsx", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="quiz_1.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err, "тело ответа должно быть валидным XLSX")
	defer f.Close()

	header, err := f.GetCellValue("Вопросы", "A1")
	require.NoError(t, err)
	assert.Equal(t, "#", header)

	title, err := f.GetCellValue("Вопросы", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Столица Франции?", title)

	answer, err := f.GetCellValue("Вопросы", "D4")
	require.NoError(t, err)
	assert.Equal(t, "Амазонка (#2)", answer)
}

func TestExportQuiz_UnsupportedFormat(t *testing.T) {
	repo := newMemQuizRepo()
	seedQuiz(repo)
	router := newTestRouter(repo)

	w := doRequest(router, http.MethodGet, "/api/quiz/1/export?format=pdf", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported export format")
}

func TestExportQuiz_NotFound(t *testing.T) {
	router := newTestRouter(newMemQuizRepo())

	w := doRequest(router, http.MethodGet, "/api/quiz/999/export?format=csv", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ============================================================================
// Отображение ошибок сервиса в HTTP статусы
// ============================================================================

func TestGetQuiz_NotFound(t *testing.T) {
	router := newTestRouter(newMemQuizRepo())

	w := doRequest(router, http.MethodGet, "/api/quiz/999", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "record not found")
}

func TestCreateQuiz_ValidationError(t *testing.T) {
	repo := newMemQuizRepo()
	router := newTestRouter(repo)

	w := doRequest(router, http.MethodPost, "/api/quiz", `{"name":"","questions":[]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "quiz name is required")
	assert.Empty(t, repo.records, "невалидный запрос не должен достигать хранилища")
}

func TestCreateQuiz_MalformedJSON(t *testing.T) {
	router := newTestRouter(newMemQuizRepo())

	w := doRequest(router, http.MethodPost, "/api/quiz", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteQuiz_ReturnsRecordThenNotFound(t *testing.T) {
	repo := newMemQuizRepo()
	seedQuiz(repo)
	router := newTestRouter(repo)

	// Первое удаление возвращает удаленную запись
	w := doRequest(router, http.MethodDelete, "/api/quiz/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["id"])
	assert.Equal(t, "Гео", resp["name"])

	// Повторное удаление — 404
	w = doRequest(router, http.MethodDelete, "/api/quiz/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
