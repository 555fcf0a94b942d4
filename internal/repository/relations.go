package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

type GormRelationRepository struct {
	db *gorm.DB
}

// columns returns the subject and object column of a relation table.
func columns(kind Relation) (subject, object string) {
	if kind == Subscription {
		return "user_id", "author_id"
	}
	return "user_id", "recipe_id"
}

func newRow(kind Relation, subject, object uint) (interface{}, error) {
	switch kind {
	case Favorite:
		return &models.Favorite{UserID: subject, RecipeID: object}, nil
	case ShoppingCart:
		return &models.ShoppingCart{UserID: subject, RecipeID: object}, nil
	case Subscription:
		return &models.Subscription{UserID: subject, AuthorID: object}, nil
	default:
		return nil, fmt.Errorf("unknown relation %d", kind)
	}
}

func (r *GormRelationRepository) scoped(ctx context.Context, kind Relation) (*gorm.DB, error) {
	row, err := newRow(kind, 0, 0)
	if err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Model(row), nil
}

func (r *GormRelationRepository) Exists(ctx context.Context, kind Relation, subject, object uint) (bool, error) {
	db, err := r.scoped(ctx, kind)
	if err != nil {
		return false, err
	}
	subjectCol, objectCol := columns(kind)

	var count int64
	if err := db.Where(subjectCol+" = ? AND "+objectCol+" = ?", subject, object).Count(&count).Error; err != nil {
		return false, translate(err, "check "+kind.String())
	}
	return count > 0, nil
}

func (r *GormRelationRepository) Add(ctx context.Context, kind Relation, subject, object uint) error {
	row, err := newRow(kind, subject, object)
	if err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error, "add "+kind.String())
}

func (r *GormRelationRepository) Remove(ctx context.Context, kind Relation, subject, object uint) (bool, error) {
	row, err := newRow(kind, 0, 0)
	if err != nil {
		return false, err
	}
	subjectCol, objectCol := columns(kind)

	result := r.db.WithContext(ctx).Where(subjectCol+" = ? AND "+objectCol+" = ?", subject, object).Delete(row)
	if result.Error != nil {
		return false, translate(result.Error, "remove "+kind.String())
	}
	return result.RowsAffected > 0, nil
}

func (r *GormRelationRepository) Marked(ctx context.Context, kind Relation, subject uint, objects []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(objects))
	if len(objects) == 0 {
		return out, nil
	}

	db, err := r.scoped(ctx, kind)
	if err != nil {
		return nil, err
	}
	subjectCol, objectCol := columns(kind)

	var ids []uint
	if err := db.Where(subjectCol+" = ? AND "+objectCol+" IN ?", subject, objects).Pluck(objectCol, &ids).Error; err != nil {
		return nil, translate(err, "load "+kind.String()+" marks")
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *GormRelationRepository) Objects(ctx context.Context, kind Relation, subject uint, offset, limit int) ([]uint, int64, error) {
	db, err := r.scoped(ctx, kind)
	if err != nil {
		return nil, 0, err
	}
	subjectCol, objectCol := columns(kind)
	query := db.Where(subjectCol+" = ?", subject)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count "+kind.String())
	}

	var ids []uint
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Pluck(objectCol, &ids).Error; err != nil {
		return nil, 0, translate(err, "list "+kind.String())
	}
	return ids, total, nil
}
