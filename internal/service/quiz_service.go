package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quiz-builder-api/internal/domain/entity"
	"github.com/yourusername/quiz-builder-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-builder-api/internal/pkg/errors"
)

// QuizService предоставляет операции над викторинами:
// валидация входных данных и делегирование в хранилище.
type QuizService struct {
	quizRepo repository.QuizRepository
}

// NewQuizService создает новый сервис викторин
func NewQuizService(quizRepo repository.QuizRepository) *QuizService {
	return &QuizService{quizRepo: quizRepo}
}

// Create валидирует и сохраняет новую викторину.
// Возвращает сохраненную запись с назначенным базой ID.
func (s *QuizService) Create(name, description string, questions []entity.Question) (*entity.Quiz, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: quiz name is required", apperrors.ErrValidation)
	}

	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", apperrors.ErrValidation, i+1, err)
		}
	}

	quiz := &entity.Quiz{
		Name:        name,
		Description: description,
		Questions:   entity.QuestionList(questions),
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		// Детали только в серверный лог, клиенту — общая ошибка
		log.Printf("[QuizService] Ошибка при создании викторины: %v", err)
		return nil, apperrors.ErrInternal
	}

	return quiz, nil
}

// GetAll возвращает все сохраненные викторины без фильтрации и пагинации
func (s *QuizService) GetAll() ([]entity.Quiz, error) {
	quizzes, err := s.quizRepo.GetAll()
	if err != nil {
		log.Printf("[QuizService] Ошибка при получении списка викторин: %v", err)
		return nil, apperrors.ErrInternal
	}
	return quizzes, nil
}

// GetByID возвращает викторину по ID.
// Нулевой идентификатор отклоняется до обращения к хранилищу.
func (s *QuizService) GetByID(id uint) (*entity.Quiz, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: id parameter is required", apperrors.ErrInvalidRequest)
	}

	quiz, err := s.quizRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		log.Printf("[QuizService] Ошибка при получении викторины #%d: %v", id, err)
		return nil, apperrors.ErrInternal
	}
	return quiz, nil
}

// Delete удаляет викторину по ID и возвращает удаленную запись
func (s *QuizService) Delete(id uint) (*entity.Quiz, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: id parameter is required", apperrors.ErrInvalidRequest)
	}

	quiz, err := s.quizRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		log.Printf("[QuizService] Ошибка при удалении викторины #%d: %v", id, err)
		return nil, apperrors.ErrInternal
	}

	if err := s.quizRepo.Delete(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		log.Printf("[QuizService] Ошибка при удалении викторины #%d: %v", id, err)
		return nil, apperrors.ErrInternal
	}

	return quiz, nil
}
