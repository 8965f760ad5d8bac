package database

import (
	"errors"
	"fmt"
	"time"

	"pitlane/models"

	"gorm.io/gorm"
)

// cached metadata older than this is refetched
const mediaTTL = 24 * time.Hour

// GetMedia returns the media cached for an extractor and the content
// id matched in the requested url, nil when missing or stale.
func GetMedia(
	extractorCodeName string,
	contentID string,
) (*models.Media, error) {
	var media models.Media

	err := DB.
		Where(&models.Media{
			CacheKey: cacheKey(extractorCodeName, contentID),
		}).
		Where("updated_at > ?", time.Now().UTC().Add(-mediaTTL)).
		Order("updated_at DESC").
		First(&media).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stored media: %w", err)
	}
	return &media, nil
}

func StoreMedia(
	extractorCodeName string,
	contentID string,
	media *models.Media,
) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// older rows for the same content are superseded
		key := cacheKey(extractorCodeName, contentID)
		if err := tx.Unscoped().Where(&models.Media{
			CacheKey: key,
		}).Delete(&models.Media{}).Error; err != nil {
			return fmt.Errorf("failed to delete stale media: %w", err)
		}
		row := *media
		row.ID = 0
		row.CacheKey = key
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to store media: %w", err)
		}
		return nil
	})
}

func GetMediaCount() (int64, error) {
	var count int64
	err := DB.
		Model(&models.Media{}).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func cacheKey(extractorCodeName string, contentID string) string {
	return extractorCodeName + ":" + contentID
}
