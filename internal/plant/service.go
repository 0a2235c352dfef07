package plant

import (
	"log/slog"
	"time"

	"github.com/upenergia/asset-management/internal"
)

type RepositoryAPI interface {
	Create(p *Plant) error
	GetByID(id int64) (*Plant, error)
	GetByCNPJ(cnpj string) (*Plant, error)
	List(limit, offset int) ([]*Plant, int64, error)
	Update(p *Plant) error
	Deactivate(id int64, deletedAt time.Time) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreatePlant(dto CreatePlantDTO) (*Plant, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByCNPJ(dto.CNPJ); err == nil && existing != nil {
		s.logger.Warn("create plant rejected: duplicate cnpj", "cnpj", dto.CNPJ)
		return nil, internal.NewConflictError("a plant with this CNPJ already exists", internal.ErrCodeDuplicateCNPJ)
	}

	p := &Plant{
		Name:      dto.Name,
		CNPJ:      dto.CNPJ,
		Address:   dto.Address,
		City:      dto.City,
		State:     dto.State,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create plant", "error", err, "cnpj", dto.CNPJ)
		return nil, err
	}

	s.logger.Info("plant created", "plant_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) GetPlant(id int64) (*Plant, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("plant not found", internal.ErrCodePlantNotFound)
	}
	return p, nil
}

func (s *Service) ListPlants(limit, offset int) ([]*Plant, int64, error) {
	return s.repo.List(limit, offset)
}

func (s *Service) UpdatePlant(id int64, dto UpdatePlantDTO) (*Plant, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("plant not found", internal.ErrCodePlantNotFound)
	}

	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Address != nil {
		p.Address = *dto.Address
	}
	if dto.City != nil {
		p.City = *dto.City
	}
	if dto.State != nil {
		p.State = *dto.State
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to update plant", "error", err, "plant_id", id)
		return nil, err
	}

	return p, nil
}

func (s *Service) DeactivatePlant(id int64) error {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewNotFoundError("plant not found", internal.ErrCodePlantNotFound)
	}

	if !p.IsActive {
		return internal.NewValidationError("plant is already inactive", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.Deactivate(id, time.Now()); err != nil {
		s.logger.Error("failed to deactivate plant", "error", err, "plant_id", id)
		return err
	}

	s.logger.Info("plant deactivated", "plant_id", id)
	return nil
}
