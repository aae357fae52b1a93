package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/quiz-builder-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-builder-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий викторин
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает новую викторину; ID назначается базой
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	if err := r.db.Create(quiz).Error; err != nil {
		return fmt.Errorf("create quiz%s: %w", sqlStateSuffix(err), err)
	}
	return nil
}

// GetByID возвращает викторину по ID
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get quiz #%d%s: %w", id, sqlStateSuffix(err), err)
	}
	return &quiz, nil
}

// GetAll возвращает все викторины в порядке хранения (по id)
func (r *QuizRepo) GetAll() ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.Order("id").Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("list quizzes%s: %w", sqlStateSuffix(err), err)
	}
	return quizzes, nil
}

// Delete удаляет викторину по ID.
// RowsAffected == 0 означает, что записи не было.
func (r *QuizRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Quiz{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete quiz #%d%s: %w", id, sqlStateSuffix(result.Error), result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// sqlStateSuffix извлекает SQLSTATE из ошибок обоих postgres-драйверов
// для детального серверного лога. Пустая строка, если код недоступен.
func sqlStateSuffix(err error) string {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Sprintf(" (SQLSTATE %s)", pgErr.Code)
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Sprintf(" (SQLSTATE %s)", pqErr.Code)
	}
	return ""
}
