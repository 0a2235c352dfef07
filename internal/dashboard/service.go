package dashboard

import (
	"log/slog"
	"time"
)

type RepositoryAPI interface {
	Summary(year int) (*Summary, error)
	PlantBreakdown() ([]*PlantBreakdown, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) GetSummary() (*Summary, error) {
	summary, err := s.repo.Summary(s.now().Year())
	if err != nil {
		s.logger.Error("failed to build dashboard summary", "error", err)
		return nil, err
	}
	return summary, nil
}

func (s *Service) GetPlantBreakdown() ([]*PlantBreakdown, error) {
	rows, err := s.repo.PlantBreakdown()
	if err != nil {
		s.logger.Error("failed to build plant breakdown", "error", err)
		return nil, err
	}
	return rows, nil
}
