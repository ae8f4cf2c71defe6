package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leaguedesk/officiating-system/cache"
	"github.com/leaguedesk/officiating-system/models"
	"github.com/leaguedesk/officiating-system/repositories"
	"github.com/leaguedesk/officiating-system/storage"
)

type RefereeService interface {
	GetByID(ctx context.Context, refereeID int) (*models.Referee, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Referee, error)
	UploadPhoto(ctx context.Context, refereeID int, contentType string, reader io.Reader) (*models.Referee, error)
}

type refereeService struct {
	repo      repositories.RefereeRepository
	uploader  storage.FileUploader
	readCache *cache.Cache
}

func NewRefereeService(repo repositories.RefereeRepository, uploader storage.FileUploader, readCache *cache.Cache) RefereeService {
	return &refereeService{repo: repo, uploader: uploader, readCache: readCache}
}

func (s *refereeService) GetByID(ctx context.Context, refereeID int) (*models.Referee, error) {
	ref, err := s.repo.GetByID(ctx, refereeID)
	if err != nil {
		if errors.Is(err, repositories.ErrRefereeNotFound) {
			return nil, ErrRefereeNotFound
		}
		return nil, err
	}
	s.populatePhotoURL(ref)
	return ref, nil
}

// ListByLeague — read-through: справочник лиги кэшируется и сбрасывается
// вместе с остальными представлениями тенанта.
func (s *refereeService) ListByLeague(ctx context.Context, leagueID int) ([]*models.Referee, error) {
	key := cache.TenantKey(leagueID, "referees")
	if s.readCache != nil {
		if cached, ok := s.readCache.Get(key); ok {
			if referees, ok := cached.([]*models.Referee); ok {
				return referees, nil
			}
		}
	}

	referees, err := s.repo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	for _, ref := range referees {
		s.populatePhotoURL(ref)
	}

	if s.readCache != nil {
		s.readCache.Set(key, referees, cache.DefaultTTL)
	}
	return referees, nil
}

func (s *refereeService) UploadPhoto(ctx context.Context, refereeID int, contentType string, reader io.Reader) (*models.Referee, error) {
	ref, err := s.repo.GetByID(ctx, refereeID)
	if err != nil {
		if errors.Is(err, repositories.ErrRefereeNotFound) {
			return nil, ErrRefereeNotFound
		}
		return nil, err
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	oldKey := ref.PhotoKey
	key := fmt.Sprintf("referees/%d/photo%s", refereeID, ext)

	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload referee photo: %w", err)
	}

	if err := s.repo.UpdatePhotoKey(ctx, refereeID, &result.Key); err != nil {
		return nil, err
	}

	// Старый объект с другим расширением убираем, ошибку не считаем фатальной.
	if oldKey != nil && *oldKey != result.Key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	if s.readCache != nil {
		s.readCache.InvalidateTenant(ref.LeagueID)
	}

	ref.PhotoKey = &result.Key
	s.populatePhotoURL(ref)
	return ref, nil
}

func (s *refereeService) populatePhotoURL(ref *models.Referee) {
	if ref == nil || ref.PhotoKey == nil || *ref.PhotoKey == "" || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*ref.PhotoKey)
	if url != "" {
		ref.PhotoURL = &url
	}
}

func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type %q", contentType)
	}
}
