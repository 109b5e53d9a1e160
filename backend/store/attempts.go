package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizmaster/backend/models"

	"gorm.io/gorm"
)

type SubmitParams struct {
	Total      int
	Correct    int
	Category   string
	Difficulty string
}

// AttemptStore records quiz attempts. Attempts are append-only.
type AttemptStore struct {
	db *gorm.DB
}

func NewAttemptStore(db *gorm.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

// Submit appends an attempt for subject. Tokens may name an identity that has
// no row yet, so a passwordless user is created on demand.
func (s *AttemptStore) Submit(ctx context.Context, subject string, params SubmitParams) (*models.Attempt, error) {
	var attempt *models.Attempt

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := insertIfAbsent(tx, &models.User{Email: subject}); err != nil {
			return err
		}
		user, err := findByEmail(tx, subject)
		if err != nil {
			return err
		}

		attempt = &models.Attempt{
			UserID:     user.ID,
			Total:      params.Total,
			Correct:    params.Correct,
			Category:   params.Category,
			Difficulty: params.Difficulty,
		}
		if err := tx.Create(attempt).Error; err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// List returns subject's attempts, newest first. Unknown subjects have none.
func (s *AttemptStore) List(ctx context.Context, subject string) ([]models.Attempt, error) {
	db := s.db.WithContext(ctx)

	user, err := findByEmail(db, subject)
	if errors.Is(err, ErrUserNotFound) {
		return []models.Attempt{}, nil
	}
	if err != nil {
		return nil, err
	}

	attempts := []models.Attempt{}
	if err := db.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

// Summary aggregates subject's attempts created within [start, end] per
// category and difficulty.
func (s *AttemptStore) Summary(ctx context.Context, subject string, start, end time.Time) (*models.ScoreSummary, error) {
	db := s.db.WithContext(ctx)
	summary := &models.ScoreSummary{Groups: []models.ScoreGroup{}}

	user, err := findByEmail(db, subject)
	if errors.Is(err, ErrUserNotFound) {
		return summary, nil
	}
	if err != nil {
		return nil, err
	}

	var groups []models.ScoreGroup
	if err := db.Model(&models.Attempt{}).
		Select("category, difficulty, COUNT(*) AS attempts, COALESCE(SUM(total), 0) AS total, COALESCE(SUM(correct), 0) AS correct").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", user.ID, start.UTC(), end.UTC()).
		Group("category").
		Group("difficulty").
		Order("category").
		Order("difficulty").
		Scan(&groups).Error; err != nil {
		return nil, fmt.Errorf("summarize attempts: %w", err)
	}

	for i := range groups {
		g := &groups[i]
		g.Accuracy = models.Accuracy(g.Correct, g.Total)
		summary.Overall.Attempts += g.Attempts
		summary.Overall.Total += g.Total
		summary.Overall.Correct += g.Correct
	}
	summary.Overall.Accuracy = models.Accuracy(summary.Overall.Correct, summary.Overall.Total)
	if groups != nil {
		summary.Groups = groups
	}
	return summary, nil
}
