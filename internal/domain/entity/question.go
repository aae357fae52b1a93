package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Типы вопросов
const (
	QuestionTypeShortText      QuestionType = "short-text"
	QuestionTypeBoolean        QuestionType = "boolean"
	QuestionTypeMultipleChoice QuestionType = "multiple-choice"
)

// QuestionType — дискриминатор типа вопроса
type QuestionType string

// IsValid проверяет, что тип входит в число допустимых
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeShortText, QuestionTypeBoolean, QuestionTypeMultipleChoice:
		return true
	}
	return false
}

// Option представляет вариант ответа в вопросе с выбором.
// ID уникален только в пределах списка опций своего вопроса.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Виды значений ответа
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerText
	AnswerBool
	AnswerOptionID
)

// Answer — ответ на вопрос, размеченный вариант: строка для short-text,
// булево для boolean, id опции для multiple-choice.
// Нулевое значение означает отсутствие ответа.
type Answer struct {
	kind     AnswerKind
	text     string
	boolean  bool
	optionID int
}

// TextAnswer создает строковый ответ
func TextAnswer(text string) Answer {
	return Answer{kind: AnswerText, text: text}
}

// BoolAnswer создает булев ответ
func BoolAnswer(value bool) Answer {
	return Answer{kind: AnswerBool, boolean: value}
}

// OptionAnswer создает ответ-ссылку на id опции
func OptionAnswer(optionID int) Answer {
	return Answer{kind: AnswerOptionID, optionID: optionID}
}

// Kind возвращает вид значения ответа
func (a Answer) Kind() AnswerKind { return a.kind }

// Text возвращает строковое значение (для AnswerText)
func (a Answer) Text() string { return a.text }

// Bool возвращает булево значение (для AnswerBool)
func (a Answer) Bool() bool { return a.boolean }

// OptionID возвращает id выбранной опции (для AnswerOptionID)
func (a Answer) OptionID() int { return a.optionID }

// IsZero сообщает encoding/json, что ответ отсутствует (omitzero)
func (a Answer) IsZero() bool { return a.kind == AnswerNone }

// MarshalJSON сериализует ответ в исходное скалярное значение
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerText:
		return json.Marshal(a.text)
	case AnswerBool:
		return json.Marshal(a.boolean)
	case AnswerOptionID:
		return json.Marshal(a.optionID)
	}
	return []byte("null"), nil
}

// UnmarshalJSON восстанавливает вид ответа по JSON-типу значения
func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*a = Answer{}
	case string:
		*a = TextAnswer(v)
	case bool:
		*a = BoolAnswer(v)
	case float64:
		*a = OptionAnswer(int(v))
	default:
		return fmt.Errorf("unsupported answer value: %s", string(data))
	}
	return nil
}

// Question представляет вопрос викторины.
// Смысл полей Answer/Placeholder/Options зависит от Type:
//   - short-text: опционально Placeholder и строковый Answer
//   - boolean: обязателен булев Answer
//   - multiple-choice: обязательны Options (>= 1) и Answer с id одной из них
type Question struct {
	Title       string       `json:"title"`
	Type        QuestionType `json:"type"`
	Answer      Answer       `json:"answer,omitzero"`
	Placeholder string       `json:"placeholder,omitempty"`
	Options     []Option     `json:"options,omitempty"`
}

// OptionByID ищет опцию по id в списке опций вопроса
func (q *Question) OptionByID(id int) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// IsCorrectOption проверяет, является ли опция с данным id правильным ответом
func (q *Question) IsCorrectOption(optionID int) bool {
	return q.Answer.Kind() == AnswerOptionID && q.Answer.OptionID() == optionID
}

// Validate проверяет структурную корректность вопроса по его типу
func (q *Question) Validate() error {
	if q.Title == "" {
		return errors.New("question title is required")
	}
	switch q.Type {
	case QuestionTypeShortText:
		if k := q.Answer.Kind(); k != AnswerNone && k != AnswerText {
			return errors.New("short-text answer must be a string")
		}
	case QuestionTypeBoolean:
		if q.Answer.Kind() != AnswerBool {
			return errors.New("boolean question requires a true/false answer")
		}
	case QuestionTypeMultipleChoice:
		if len(q.Options) == 0 {
			return errors.New("multiple-choice question requires at least one option")
		}
		seen := make(map[int]bool, len(q.Options))
		for _, opt := range q.Options {
			if seen[opt.ID] {
				return fmt.Errorf("duplicate option id %d", opt.ID)
			}
			seen[opt.ID] = true
		}
		if q.Answer.Kind() != AnswerOptionID {
			return errors.New("multiple-choice answer must reference an option id")
		}
		if _, ok := q.OptionByID(q.Answer.OptionID()); !ok {
			return fmt.Errorf("answer references unknown option id %d", q.Answer.OptionID())
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

// QuestionList - пользовательский тип для хранения вопросов одним JSONB-блобом.
// Порядок вопросов значим и сохраняется при записи/чтении.
type QuestionList []Question

// Scan реализует интерфейс sql.Scanner для QuestionList
// Используется GORM для чтения JSONB данных из базы
func (l *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*l = QuestionList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*l = QuestionList{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Value реализует интерфейс driver.Valuer для QuestionList
// Используется GORM для записи списка вопросов в JSONB
func (l QuestionList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(l)
}
