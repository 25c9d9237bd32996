package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pbfed/ranking-engine/models"
	"github.com/pbfed/ranking-engine/repositories"
)

type PeriodService interface {
	// GetOrCreateActivePeriod returns the single active period, creating a
	// calendar-year one if none exists. Safe under concurrent callers: a
	// lost creation race is resolved by re-fetching the winner's row.
	GetOrCreateActivePeriod(ctx context.Context) (*models.RankingPeriod, error)
	// GetActivePeriod returns ErrNoActivePeriod instead of creating one.
	GetActivePeriod(ctx context.Context) (*models.RankingPeriod, error)
	GetPeriod(ctx context.Context, id int) (*models.RankingPeriod, error)
	ListPeriods(ctx context.Context) ([]*models.RankingPeriod, error)
	ClosePeriod(ctx context.Context, id int) (*models.RankingPeriod, error)
}

type periodService struct {
	periodRepo repositories.PeriodRepository
}

func NewPeriodService(periodRepo repositories.PeriodRepository) PeriodService {
	return &periodService{periodRepo: periodRepo}
}

func (s *periodService) GetOrCreateActivePeriod(ctx context.Context) (*models.RankingPeriod, error) {
	period, err := s.periodRepo.GetActive(ctx)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, repositories.ErrNoActivePeriod) {
		return nil, fmt.Errorf("failed to look up active period: %w", err)
	}

	year := time.Now().UTC().Year()
	newPeriod := &models.RankingPeriod{
		Name:      fmt.Sprintf("%d Season", year),
		StartDate: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
		Status:    models.PeriodStatusActive,
	}

	createErr := s.periodRepo.Create(ctx, newPeriod)
	if createErr == nil {
		return newPeriod, nil
	}
	if errors.Is(createErr, repositories.ErrActivePeriodConflict) {
		// Another caller created the period between our fetch and insert.
		period, err = s.periodRepo.GetActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("active period conflict but re-fetch failed: %w", err)
		}
		return period, nil
	}
	return nil, fmt.Errorf("failed to create active period: %w", createErr)
}

func (s *periodService) GetActivePeriod(ctx context.Context) (*models.RankingPeriod, error) {
	period, err := s.periodRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActivePeriod) {
			return nil, ErrNoActivePeriod
		}
		return nil, fmt.Errorf("failed to look up active period: %w", err)
	}
	return period, nil
}

func (s *periodService) GetPeriod(ctx context.Context, id int) (*models.RankingPeriod, error) {
	period, err := s.periodRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPeriodNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to get period %d: %w", id, err)
	}
	return period, nil
}

func (s *periodService) ListPeriods(ctx context.Context) ([]*models.RankingPeriod, error) {
	periods, err := s.periodRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

func (s *periodService) ClosePeriod(ctx context.Context, id int) (*models.RankingPeriod, error) {
	period, err := s.GetPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	if period.Status == models.PeriodStatusClosed {
		return nil, ErrPeriodAlreadyClosed
	}

	if err := s.periodRepo.UpdateStatus(ctx, id, models.PeriodStatusClosed); err != nil {
		return nil, fmt.Errorf("failed to close period %d: %w", id, err)
	}
	period.Status = models.PeriodStatusClosed
	return period, nil
}
