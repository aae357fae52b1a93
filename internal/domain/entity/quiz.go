package entity

import (
	"time"
)

// Quiz представляет викторину: именованный набор упорядоченных вопросов.
// Вопросы хранятся одним JSONB-блобом, по отдельности на сервере не адресуются.
type Quiz struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	Description string       `gorm:"size:1000;not null;default:''" json:"description"`
	Questions   QuestionList `gorm:"type:jsonb;not null" json:"questions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// QuestionCount возвращает количество вопросов викторины
func (q *Quiz) QuestionCount() int {
	return len(q.Questions)
}
