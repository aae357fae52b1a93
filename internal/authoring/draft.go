package authoring

import (
	"errors"
	"strings"

	"github.com/yourusername/quiz-builder-api/internal/domain/entity"
)

// Пользовательские сообщения предпроверки перед отправкой
var (
	ErrNameRequired    = errors.New("Please enter a quiz name")
	ErrTitlesRequired  = errors.New("Please fill in all question titles")
	ErrOptionsRequired = errors.New("Please fill in all multiple choice options")
)

// Draft — редактируемый черновик викторины. Единственный владелец —
// сессия конструктора; живет в памяти до отправки или истечения срока.
// Все переходы — методы над одним изменяемым документом.
type Draft struct {
	Name        string
	Description string
	Questions   []entity.Question
}

// NewDraft создает черновик с одним вопросом по умолчанию
func NewDraft() *Draft {
	return &Draft{
		Questions: []entity.Question{defaultQuestion(entity.QuestionTypeMultipleChoice, "")},
	}
}

// defaultQuestion возвращает стартовую форму вопроса для данного типа
func defaultQuestion(questionType entity.QuestionType, title string) entity.Question {
	switch questionType {
	case entity.QuestionTypeShortText:
		return entity.Question{
			Title:       title,
			Type:        entity.QuestionTypeShortText,
			Placeholder: "",
			Answer:      entity.TextAnswer(""),
		}
	case entity.QuestionTypeBoolean:
		return entity.Question{
			Title:  title,
			Type:   entity.QuestionTypeBoolean,
			Answer: entity.BoolAnswer(true),
		}
	default:
		return entity.Question{
			Title: title,
			Type:  entity.QuestionTypeMultipleChoice,
			Options: []entity.Option{
				{ID: 1, Text: ""},
				{ID: 2, Text: ""},
			},
			Answer: entity.OptionAnswer(1),
		}
	}
}

// AddQuestion добавляет в конец вопрос с выбором по умолчанию
func (d *Draft) AddQuestion() {
	d.Questions = append(d.Questions, defaultQuestion(entity.QuestionTypeMultipleChoice, ""))
}

// RemoveQuestion удаляет вопрос по индексу.
// Последний оставшийся вопрос удалить нельзя.
func (d *Draft) RemoveQuestion(index int) {
	if len(d.Questions) <= 1 || index < 0 || index >= len(d.Questions) {
		return
	}
	d.Questions = append(d.Questions[:index], d.Questions[index+1:]...)
}

// SetQuestionType заменяет вопрос стартовой формой нового типа.
// Сохраняется только заголовок; опции, ответ и плейсхолдер сбрасываются.
func (d *Draft) SetQuestionType(index int, questionType entity.QuestionType) {
	if index < 0 || index >= len(d.Questions) || !questionType.IsValid() {
		return
	}
	d.Questions[index] = defaultQuestion(questionType, d.Questions[index].Title)
}

// SetQuestionTitle обновляет заголовок вопроса
func (d *Draft) SetQuestionTitle(index int, title string) {
	if index < 0 || index >= len(d.Questions) {
		return
	}
	d.Questions[index].Title = title
}

// SetPlaceholder обновляет плейсхолдер short-text вопроса
func (d *Draft) SetPlaceholder(index int, placeholder string) {
	if index < 0 || index >= len(d.Questions) {
		return
	}
	if d.Questions[index].Type != entity.QuestionTypeShortText {
		return
	}
	d.Questions[index].Placeholder = placeholder
}

// SetShortTextAnswer обновляет образцовый ответ short-text вопроса
func (d *Draft) SetShortTextAnswer(index int, answer string) {
	if index < 0 || index >= len(d.Questions) {
		return
	}
	if d.Questions[index].Type != entity.QuestionTypeShortText {
		return
	}
	d.Questions[index].Answer = entity.TextAnswer(answer)
}

// SetBooleanAnswer обновляет ответ boolean вопроса
func (d *Draft) SetBooleanAnswer(index int, value bool) {
	if index < 0 || index >= len(d.Questions) {
		return
	}
	if d.Questions[index].Type != entity.QuestionTypeBoolean {
		return
	}
	d.Questions[index].Answer = entity.BoolAnswer(value)
}

// SelectOption назначает правильным ответом опцию с данным id
func (d *Draft) SelectOption(index, optionID int) {
	if index < 0 || index >= len(d.Questions) {
		return
	}
	question := &d.Questions[index]
	if question.Type != entity.QuestionTypeMultipleChoice {
		return
	}
	if _, ok := question.OptionByID(optionID); !ok {
		return
	}
	question.Answer = entity.OptionAnswer(optionID)
}

// AddOption добавляет пустую опцию с id = max(существующие id) + 1
func (d *Draft) AddOption(index int) {
	if index < 0 || index >= len(d.Questions) {
		return
	}
	question := &d.Questions[index]
	if question.Type != entity.QuestionTypeMultipleChoice {
		return
	}
	maxID := 0
	for _, opt := range question.Options {
		if opt.ID > maxID {
			maxID = opt.ID
		}
	}
	question.Options = append(question.Options, entity.Option{ID: maxID + 1, Text: ""})
}

// RemoveOption удаляет опцию по id, не опускаясь ниже двух опций.
// Если удаленная опция была ответом, ответ переназначается на первую
// оставшуюся опцию (fallback 1).
func (d *Draft) RemoveOption(index, optionID int) {
	if index < 0 || index >= len(d.Questions) {
		return
	}
	question := &d.Questions[index]
	if question.Type != entity.QuestionTypeMultipleChoice || len(question.Options) <= 2 {
		return
	}

	remaining := make([]entity.Option, 0, len(question.Options)-1)
	removed := false
	for _, opt := range question.Options {
		if opt.ID == optionID {
			removed = true
			continue
		}
		remaining = append(remaining, opt)
	}
	if !removed {
		return
	}
	question.Options = remaining

	if question.Answer.Kind() == entity.AnswerOptionID && question.Answer.OptionID() == optionID {
		newAnswer := 1
		if len(remaining) > 0 {
			newAnswer = remaining[0].ID
		}
		question.Answer = entity.OptionAnswer(newAnswer)
	}
}

// UpdateOption заменяет текст опции с данным id
func (d *Draft) UpdateOption(index, optionID int, text string) {
	if index < 0 || index >= len(d.Questions) {
		return
	}
	question := &d.Questions[index]
	if question.Type != entity.QuestionTypeMultipleChoice {
		return
	}
	for i := range question.Options {
		if question.Options[i].ID == optionID {
			question.Options[i].Text = text
			return
		}
	}
}

// Validate выполняет предпроверку полноты перед отправкой.
// Любая ошибка блокирует отправку целиком; частичной отправки нет.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	for _, question := range d.Questions {
		if strings.TrimSpace(question.Title) == "" {
			return ErrTitlesRequired
		}
	}
	for _, question := range d.Questions {
		if question.Type != entity.QuestionTypeMultipleChoice {
			continue
		}
		for _, opt := range question.Options {
			if strings.TrimSpace(opt.Text) == "" {
				return ErrOptionsRequired
			}
		}
	}
	return nil
}
