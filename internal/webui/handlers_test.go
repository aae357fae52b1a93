package webui

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/quiz-builder-api/internal/authoring"
	"github.com/yourusername/quiz-builder-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-builder-api/internal/pkg/errors"
	"github.com/yourusername/quiz-builder-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memQuizRepo — репозиторий в памяти для тестов web-интерфейса
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

func newTestHandler() (*Handler, *memQuizRepo, *authoring.DraftStore) {
	repo := newMemQuizRepo()
	store := authoring.NewDraftStore(time.Hour)
	return NewHandler(service.NewQuizService(repo), store), repo, store
}

func newTestRouter(h *Handler) *gin.Engine {
	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

// postDraftForm отправляет форму конструктора как браузер
func postDraftForm(router *gin.Engine, w http.ResponseWriter, draftID uuid.UUID, form url.Values) {
	req := httptest.NewRequest(http.MethodPost, "/create/"+draftID.String(), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
}

// ============================================================================
// Страницы конструктора
// ============================================================================

func TestShowDraft_RendersForm(t *testing.T) {
	h, _, store := newTestHandler()
	router := newTestRouter(h)
	id := store.Create()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/create/"+id.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="name"`)
	assert.Contains(t, w.Body.String(), `action="/create/`+id.String()+`"`)
}

func TestShowDraft_UnknownDraftRedirects(t *testing.T) {
	h, _, _ := newTestHandler()
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/create/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/create", w.Header().Get("Location"), "истекший черновик молча заменяется новым")
}

func TestApplyDraftAction_AddQuestion(t *testing.T) {
	h, _, store := newTestHandler()
	router := newTestRouter(h)
	id := store.Create()

	w := httptest.NewRecorder()
	postDraftForm(router, w, id, url.Values{"action": {"add-question"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Question 2")

	var count int
	store.With(id, func(d *authoring.Draft) { count = len(d.Questions) })
	assert.Equal(t, 2, count)
}

func TestApplyDraftAction_SubmitCreatesQuizAndDiscardsDraft(t *testing.T) {
	h, repo, store := newTestHandler()
	router := newTestRouter(h)
	id := store.Create()

	form := url.Values{
		"action":     {"submit"},
		"name":       {"Гео"},
		"q0_title":   {"Столица Франции?"},
		"q0_opt1":    {"Париж"},
		"q0_opt2":    {"Лион"},
		"q0_correct": {"1"},
	}
	w := httptest.NewRecorder()
	postDraftForm(router, w, id, form)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, 0, store.Len(), "отправленный черновик должен удаляться из хранилища")

	require.Len(t, repo.records, 1)
	saved := repo.records[1]
	assert.Equal(t, "Гео", saved.Name)
	require.Len(t, saved.Questions, 1)
	assert.Equal(t, entity.OptionAnswer(1), saved.Questions[0].Answer)
}

func TestApplyDraftAction_ValidationErrorKeepsDraft(t *testing.T) {
	h, repo, store := newTestHandler()
	router := newTestRouter(h)
	id := store.Create()

	// Имя не заполнено: отправка блокируется, черновик остается
	w := httptest.NewRecorder()
	postDraftForm(router, w, id, url.Values{"action": {"submit"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a quiz name")
	assert.Equal(t, 1, store.Len())
	assert.Empty(t, repo.records)
}

// ============================================================================
// Ответ пишется после освобождения лока хранилища
// ============================================================================

// lockCheckWriter при первой записи тела обращается к другой сессии
// черновика. Тайм-аут здесь означал бы, что ответ пишется под локом
// хранилища и медленный клиент блокирует остальные сессии.
type lockCheckWriter struct {
	*httptest.ResponseRecorder
	store     *authoring.DraftStore
	otherID   uuid.UUID
	checked   bool
	storeFree bool
}

func (w *lockCheckWriter) Write(p []byte) (int, error) {
	if !w.checked {
		w.checked = true
		done := make(chan bool, 1)
		go func() {
			done <- w.store.With(w.otherID, func(*authoring.Draft) {})
		}()
		select {
		case ok := <-done:
			w.storeFree = ok
		case <-time.After(500 * time.Millisecond):
			w.storeFree = false
		}
	}
	return w.ResponseRecorder.Write(p)
}

func TestDraftPages_ResponseWrittenOutsideStoreLock(t *testing.T) {
	h, _, store := newTestHandler()
	router := newTestRouter(h)
	id := store.Create()
	other := store.Create()

	t.Run("просмотр формы", func(t *testing.T) {
		w := &lockCheckWriter{ResponseRecorder: httptest.NewRecorder(), store: store, otherID: other}
		req := httptest.NewRequest(http.MethodGet, "/create/"+id.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.True(t, w.checked, "тело страницы должно быть записано")
		assert.True(t, w.storeFree, "во время записи ответа хранилище черновиков должно быть свободно")
	})

	t.Run("действие над черновиком", func(t *testing.T) {
		w := &lockCheckWriter{ResponseRecorder: httptest.NewRecorder(), store: store, otherID: other}
		postDraftForm(router, w, id, url.Values{"action": {"add-question"}})

		assert.Equal(t, http.StatusOK, w.Code)
		require.True(t, w.checked)
		assert.True(t, w.storeFree)
	})
}
