package category

import (
	"context"
	"errors"
	"strings"

	domain "github.com/abhishek-2k23/Todo-RN/domain/category"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCategoryNotFound is returned when a category is absent or owned by someone else.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned when the user already has a category with that name.
	ErrCategoryExists = errors.New("category already exists")
)

// Repository handles category persistence using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new category repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the categories table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Category{})
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, c *domain.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isDuplicate(err) {
			return ErrCategoryExists
		}
		return err
	}
	return nil
}

// CreateMissing inserts the rows whose (user, name) pair does not exist yet.
func (r *Repository) CreateMissing(ctx context.Context, rows []domain.Category) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// Save writes every column of an existing category.
func (r *Repository) Save(ctx context.Context, c *domain.Category) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		if isDuplicate(err) {
			return ErrCategoryExists
		}
		return err
	}
	return nil
}

// FindForUser loads a category only if userID owns it.
func (r *Repository) FindForUser(ctx context.Context, id, userID string) (*domain.Category, error) {
	var c domain.Category
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return &c, nil
}

// ListByUser returns a user's categories sorted by name.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	var categories []domain.Category
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}

// NameTaken reports whether userID already has a category called name,
// ignoring case and the category exceptID.
func (r *Repository) NameTaken(ctx context.Context, userID, name, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Category{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteForUser removes a category only if userID owns it.
func (r *Repository) DeleteForUser(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
