package database

import (
	"context"
	"strings"

	"github.com/jinzhu/gorm"

	"financeos/internal/models"
	apperrors "financeos/pkg/errors"
)

// ProfileRepository provides typed access to the profiles table.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// List returns all profiles, newest first, optionally filtered by a
// case-insensitive email or name search.
func (r *ProfileRepository) List(ctx context.Context, search string) ([]models.Profile, error) {
	query := r.db.Order("created_at desc")
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("lower(email) LIKE ? OR lower(full_name) LIKE ?", term, term)
	}

	var profiles []models.Profile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, apperrors.NewInternalErrorWithCause("failed to list profiles", err)
	}
	return profiles, nil
}

// GetByID returns one profile by id
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "id = ?", id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperrors.NewNotFoundError("profile not found")
		}
		return nil, apperrors.NewInternalErrorWithCause("failed to load profile", err)
	}
	return &profile, nil
}

// GetByEmail returns one profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "email = ?", email).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperrors.NewNotFoundError("profile not found")
		}
		return nil, apperrors.NewInternalErrorWithCause("failed to load profile", err)
	}
	return &profile, nil
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return apperrors.NewInternalErrorWithCause("failed to create profile", err)
	}
	return nil
}

// UpdateFields applies a partial update to one profile. The caller owns the
// shape of the patch; ban and role mutations go through here.
func (r *ProfileRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.Model(&models.Profile{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return apperrors.NewInternalErrorWithCause("failed to update profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("profile not found")
	}
	return nil
}

// Counts returns the profile totals shown on the admin overview.
func (r *ProfileRepository) Counts(ctx context.Context) (total, active, banned, admins int64, err error) {
	if err = r.db.Model(&models.Profile{}).Count(&total).Error; err != nil {
		return 0, 0, 0, 0, apperrors.NewInternalErrorWithCause("failed to count profiles", err)
	}
	if err = r.db.Model(&models.Profile{}).Where("is_banned = ?", true).Count(&banned).Error; err != nil {
		return 0, 0, 0, 0, apperrors.NewInternalErrorWithCause("failed to count banned profiles", err)
	}
	if err = r.db.Model(&models.Profile{}).Where("role IN (?)", []string{models.RoleAdmin, models.RoleSuperAdmin}).Count(&admins).Error; err != nil {
		return 0, 0, 0, 0, apperrors.NewInternalErrorWithCause("failed to count admin profiles", err)
	}
	active = total - banned
	return total, active, banned, admins, nil
}

// summariesByID loads slim profile summaries for the given ids.
func (r *ProfileRepository) summariesByID(ids []string) (map[string]*models.ProfileSummary, error) {
	out := make(map[string]*models.ProfileSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var profiles []models.Profile
	if err := r.db.Where("id IN (?)", ids).Find(&profiles).Error; err != nil {
		return nil, apperrors.NewInternalErrorWithCause("failed to load profile summaries", err)
	}
	for i := range profiles {
		p := profiles[i]
		out[p.ID] = &models.ProfileSummary{ID: p.ID, FullName: p.FullName, Email: p.Email}
	}
	return out, nil
}
