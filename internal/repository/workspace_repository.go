package repository

import (
	"context"

	"kanboard/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create inserts the workspace row only; boards are stored separately.
func (r *WorkspaceRepository) Create(ctx context.Context, ws *model.Workspace) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ws).Error
}

// GetAll returns every workspace with its boards, both in position order
func (r *WorkspaceRepository) GetAll(ctx context.Context) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	err := r.db.WithContext(ctx).
		Preload("Boards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, id")
		}).
		Order("position, id").
		Find(&workspaces).Error
	return workspaces, err
}

// Update changes title and description
func (r *WorkspaceRepository) Update(ctx context.Context, ws *model.Workspace) error {
	result := r.db.WithContext(ctx).Model(&model.Workspace{}).
		Where("id = ?", ws.ID).
		Updates(map[string]interface{}{
			"title":       ws.Title,
			"description": ws.Description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkspaceNotFound
	}
	return nil
}

// Delete removes a workspace together with its boards
func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ?", id).Delete(&model.Board{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Workspace{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrWorkspaceNotFound
		}
		return nil
	})
}
