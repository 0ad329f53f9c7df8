package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/philippweder/wine-shop/internal/models"
)

// ErrWineNotFound is returned when a wine with the requested ID does not exist.
var ErrWineNotFound = errors.New("wine not found")

// Store provides data access methods for the wine catalog.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new catalog Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// List returns wines ordered by ID, with offset/limit paging. A limit of 0
// returns the full catalog; the indexing pipeline relies on that.
func (s *Store) List(ctx context.Context, offset, limit int) ([]models.Wine, error) {
	var wines []models.Wine
	tx := s.db.WithContext(ctx).Order("id").Offset(offset)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&wines).Error; err != nil {
		return nil, err
	}
	return wines, nil
}

// Get returns a single wine by ID.
func (s *Store) Get(ctx context.Context, id uint) (*models.Wine, error) {
	var wine models.Wine
	err := s.db.WithContext(ctx).First(&wine, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWineNotFound
		}
		return nil, err
	}
	return &wine, nil
}

// Create inserts a new wine record.
func (s *Store) Create(ctx context.Context, wine *models.Wine) error {
	return s.db.WithContext(ctx).Create(wine).Error
}

// Update applies the given column updates to an existing wine and returns the
// refreshed record.
func (s *Store) Update(ctx context.Context, id uint, updates map[string]interface{}) (*models.Wine, error) {
	wine, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(wine).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a wine by ID.
func (s *Store) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Wine{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWineNotFound
	}
	return nil
}

// Count returns the number of wines in the catalog.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Wine{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// ListRecords returns the full catalog as mappings of non-null fields. This is
// the read shape the sommelier core consumes.
func (s *Store) ListRecords(ctx context.Context) ([]map[string]interface{}, error) {
	wines, err := s.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	records := make([]map[string]interface{}, len(wines))
	for i := range wines {
		records[i] = wines[i].FieldMap()
	}
	return records, nil
}

// ExistsByName reports whether a wine with the given name is already in the
// catalog. Used by the seed command to stay re-runnable.
func (s *Store) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Wine{}).Where("name = ?", name).Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
