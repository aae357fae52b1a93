package webui

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourusername/quiz-builder-api/internal/authoring"
	"github.com/yourusername/quiz-builder-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-builder-api/internal/pkg/errors"
	"github.com/yourusername/quiz-builder-api/internal/service"
)

// Handler обслуживает серверно-рендеренный интерфейс:
// список викторин, просмотр и конструктор над черновиком.
type Handler struct {
	quizService *service.QuizService
	drafts      *authoring.DraftStore
}

// NewHandler создает обработчик web-интерфейса
func NewHandler(quizService *service.QuizService, drafts *authoring.DraftStore) *Handler {
	return &Handler{quizService: quizService, drafts: drafts}
}

// RegisterRoutes регистрирует страницы интерфейса на роутере
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.ListQuizzes)
	router.GET("/quiz/:id", h.ViewQuiz)
	router.POST("/quiz/:id/delete", h.DeleteQuiz)
	router.GET("/create", h.StartDraft)
	router.GET("/create/:draftID", h.ShowDraft)
	router.POST("/create/:draftID", h.ApplyDraftAction)
	router.GET("/discard/:draftID", h.DiscardDraft)
}

// ListQuizzes отображает список всех викторин
func (h *Handler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.GetAll()
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	h.render(c, http.StatusOK, ListPage(quizzes))
}

// ViewQuiz отображает викторину только для чтения.
// Некорректный или несуществующий id — страница-заглушка с возвратом к списку.
func (h *Handler) ViewQuiz(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.render(c, http.StatusNotFound, NotFoundPage())
		return
	}

	quiz, err := h.quizService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.render(c, http.StatusNotFound, NotFoundPage())
			return
		}
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	h.render(c, http.StatusOK, ViewerPage(quiz))
}

// DeleteQuiz удаляет викторину из списка и возвращает к списку
func (h *Handler) DeleteQuiz(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err == nil && id > 0 {
		if _, err := h.quizService.Delete(uint(id)); err != nil {
			log.Printf("[WebUI] Ошибка удаления викторины #%d: %v", id, err)
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// StartDraft заводит новый черновик и открывает конструктор
func (h *Handler) StartDraft(c *gin.Context) {
	id := h.drafts.Create()
	c.Redirect(http.StatusSeeOther, "/create/"+id.String())
}

// ShowDraft отображает форму конструктора.
// Истекший или неизвестный черновик молча заменяется новым.
func (h *Handler) ShowDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("draftID"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/create")
		return
	}

	var page bytes.Buffer
	found := h.drafts.With(id, func(draft *authoring.Draft) {
		renderDraftPage(c, &page, AuthoringPage(id.String(), draft, ""))
	})
	if !found {
		c.Redirect(http.StatusSeeOther, "/create")
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, page.Bytes())
}

// DiscardDraft отбрасывает черновик и возвращает к списку
func (h *Handler) DiscardDraft(c *gin.Context) {
	if id, err := uuid.Parse(c.Param("draftID")); err == nil {
		h.drafts.Discard(id)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ApplyDraftAction синхронизирует значения полей формы с черновиком
// и применяет действие кнопки, которой была отправлена форма.
func (h *Handler) ApplyDraftAction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("draftID"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/create")
		return
	}

	submitted := false
	var page bytes.Buffer
	found := h.drafts.With(id, func(draft *authoring.Draft) {
		syncFormValues(c, draft)

		action := c.PostForm("action")
		switch {
		case action == "add-question":
			draft.AddQuestion()
		case action == "submit":
			// Неудачная отправка оставляет черновик нетронутым для повторной попытки
			if err := draft.Validate(); err != nil {
				renderDraftPage(c, &page, AuthoringPage(id.String(), draft, err.Error()))
				return
			}
			if _, err := h.quizService.Create(draft.Name, draft.Description, draft.Questions); err != nil {
				log.Printf("[WebUI] Ошибка создания викторины из черновика %s: %v", id, err)
				renderDraftPage(c, &page, AuthoringPage(id.String(), draft,
					"Failed to create quiz. Please try again."))
				return
			}
			submitted = true
			return
		default:
			applyIndexedAction(draft, action)
		}
		renderDraftPage(c, &page, AuthoringPage(id.String(), draft, ""))
	})
	if !found {
		c.Redirect(http.StatusSeeOther, "/create")
		return
	}
	if submitted {
		// Discard вне With: хранилище держит лок на время колбэка
		h.drafts.Discard(id)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, page.Bytes())
}

// applyIndexedAction разбирает действия вида "verb:questionIndex[:arg]"
func applyIndexedAction(draft *authoring.Draft, action string) {
	parts := strings.Split(action, ":")
	if len(parts) < 2 {
		return
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}

	switch parts[0] {
	case "remove-question":
		draft.RemoveQuestion(index)
	case "set-type":
		if len(parts) == 3 {
			draft.SetQuestionType(index, entity.QuestionType(parts[2]))
		}
	case "add-option":
		draft.AddOption(index)
	case "remove-option":
		if len(parts) == 3 {
			if optionID, err := strconv.Atoi(parts[2]); err == nil {
				draft.RemoveOption(index, optionID)
			}
		}
	}
}

// syncFormValues переносит значения всех полей формы в черновик
func syncFormValues(c *gin.Context, draft *authoring.Draft) {
	if name, ok := c.GetPostForm("name"); ok {
		draft.Name = name
	}
	if description, ok := c.GetPostForm("description"); ok {
		draft.Description = description
	}

	for i := range draft.Questions {
		if title, ok := c.GetPostForm(fmt.Sprintf("q%d_title", i)); ok {
			draft.SetQuestionTitle(i, title)
		}

		switch draft.Questions[i].Type {
		case entity.QuestionTypeShortText:
			if placeholder, ok := c.GetPostForm(fmt.Sprintf("q%d_placeholder", i)); ok {
				draft.SetPlaceholder(i, placeholder)
			}
			if answer, ok := c.GetPostForm(fmt.Sprintf("q%d_answer", i)); ok {
				draft.SetShortTextAnswer(i, answer)
			}
		case entity.QuestionTypeBoolean:
			if value, ok := c.GetPostForm(fmt.Sprintf("q%d_bool", i)); ok {
				draft.SetBooleanAnswer(i, value == "true")
			}
		case entity.QuestionTypeMultipleChoice:
			for _, opt := range draft.Questions[i].Options {
				if text, ok := c.GetPostForm(fmt.Sprintf("q%d_opt%d", i, opt.ID)); ok {
					draft.UpdateOption(i, opt.ID, text)
				}
			}
			if value, ok := c.GetPostForm(fmt.Sprintf("q%d_correct", i)); ok {
				if optionID, err := strconv.Atoi(value); err == nil {
					draft.SelectOption(i, optionID)
				}
			}
		}
	}
}

const contentTypeHTML = "text/html; charset=utf-8"

// render пишет компонент страницы в ответ
func (h *Handler) render(c *gin.Context, status int, page templ.Component) {
	c.Status(status)
	c.Header("Content-Type", contentTypeHTML)
	if err := page.Render(c.Request.Context(), c.Writer); err != nil {
		log.Printf("[WebUI] Ошибка рендеринга страницы: %v", err)
	}
}

// renderDraftPage рендерит страницу конструктора в буфер.
// Вызывается под локом хранилища черновиков: запись клиенту выполняется
// уже после освобождения лока, медленный клиент не задерживает другие сессии.
func renderDraftPage(c *gin.Context, buf *bytes.Buffer, page templ.Component) {
	if err := page.Render(c.Request.Context(), buf); err != nil {
		log.Printf("[WebUI] Ошибка рендеринга страницы: %v", err)
	}
}
