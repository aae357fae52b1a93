package dto

import (
	"time"

	"github.com/yourusername/quiz-builder-api/internal/domain/entity"
)

// QuizResponse представляет викторину в формате для ответа клиенту
type QuizResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Questions   []entity.Question `json:"questions"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewQuizResponse создает DTO для викторины
func NewQuizResponse(quiz *entity.Quiz) *QuizResponse {
	if quiz == nil {
		return nil
	}
	questions := quiz.Questions
	if questions == nil {
		questions = entity.QuestionList{}
	}
	return &QuizResponse{
		ID:          quiz.ID,
		Name:        quiz.Name,
		Description: quiz.Description,
		Questions:   questions,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
	}
}

// NewQuizListResponse создает DTO для списка викторин
func NewQuizListResponse(quizzes []entity.Quiz) []QuizResponse {
	response := make([]QuizResponse, len(quizzes))
	for i := range quizzes {
		response[i] = *NewQuizResponse(&quizzes[i])
	}
	return response
}
