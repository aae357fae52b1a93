package repository

import (
	"github.com/yourusername/quiz-builder-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с викторинами.
// Обновления не предусмотрены: редактирование выполняется через delete+create.
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	GetAll() ([]entity.Quiz, error)
	Delete(id uint) error
}
