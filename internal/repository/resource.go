package repository

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"gorm.io/gorm"
)

type ResourceRepository struct {
	entityStore[model.Resource]
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{newEntityStore[model.Resource](db, "Resource")}
}

// Uninventory marks the resources and all of their descendants
// UNINVENTORIED and drops them from every group. It returns the ids of every
// affected resource.
func (r *ResourceRepository) Uninventory(ctx context.Context, ids []int) ([]int, error) {
	ctx = r.tag(ctx, "Uninventory")

	var affected []int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		frontier := ids
		seen := make(map[int]bool)
		for len(frontier) > 0 {
			for _, id := range frontier {
				if !seen[id] {
					seen[id] = true
					affected = append(affected, id)
				}
			}
			var children []int
			if err := tx.Model(&model.Resource{}).
				Where("parent_resource_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			frontier = nil
			for _, child := range children {
				if !seen[child] {
					frontier = append(frontier, child)
				}
			}
		}

		if err := tx.Model(&model.Resource{}).
			Where("id IN ?", affected).
			Update("inventory_status", model.InventoryStatusUninventoried).Error; err != nil {
			return err
		}
		return resourceGroups.clear(tx, affected...)
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to uninventory resources").
			Ints("resource_ids", ids).
			Err(err).
			Log()
		return nil, err
	}

	logger.InfoWithContext(ctx, "Resources uninventoried").
		Ints("resource_ids", ids).
		Int("affected", len(affected)).
		Log()
	return affected, nil
}

// CountExisting counts how many of the listed ids exist.
func (r *ResourceRepository) CountExisting(ctx context.Context, ids []int) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(r.tag(ctx, "CountExisting")).
		Model(&model.Resource{}).
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}

type ResourceTypeRepository struct {
	entityStore[model.ResourceType]
}

func NewResourceTypeRepository(db *gorm.DB) *ResourceTypeRepository {
	return &ResourceTypeRepository{newEntityStore[model.ResourceType](db, "ResourceType")}
}

type ResourceGroupRepository struct {
	entityStore[model.ResourceGroup]
}

func NewResourceGroupRepository(db *gorm.DB) *ResourceGroupRepository {
	return &ResourceGroupRepository{newEntityStore[model.ResourceGroup](db, "ResourceGroup")}
}

// SetMembers replaces the explicit members of a group and stores the
// category and resource type derived from them.
func (r *ResourceGroupRepository) SetMembers(ctx context.Context, group *model.ResourceGroup, resourceIDs []int) error {
	ctx = r.tag(ctx, "SetMembers")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := groupResources.replace(tx, group.ID, resourceIDs); err != nil {
			return err
		}
		return tx.Model(&model.ResourceGroup{}).
			Where("id = ?", group.ID).
			Updates(map[string]any{
				"group_category":   group.GroupCategory,
				"resource_type_id": group.ResourceTypeID,
				"modified_by":      group.ModifiedBy,
			}).Error
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to set group members").
			Int("group_id", group.ID).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Group members replaced").
		Int("group_id", group.ID).
		Int("members", len(resourceIDs)).
		String("category", string(group.GroupCategory)).
		Log()
	return nil
}

// Delete removes groups with their memberships and role grants.
func (r *ResourceGroupRepository) Delete(ctx context.Context, ids []int) (int64, error) {
	ctx = r.tag(ctx, "Delete")

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := groupResources.clear(tx, ids...); err != nil {
			return err
		}
		if err := groupRoles.clear(tx, ids...); err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&model.ResourceGroup{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

type AgentRepository struct {
	entityStore[model.Agent]
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{newEntityStore[model.Agent](db, "Agent")}
}

// GetByResourceID returns the agent managing a resource.
func (r *AgentRepository) GetByResourceID(ctx context.Context, resourceID int) (*model.Agent, error) {
	var agent model.Agent
	err := r.db.WithContext(r.tag(ctx, "GetByResourceID")).
		Where("id = (SELECT r.agent_id FROM rhq_resource r WHERE r.id = ?)", resourceID).
		First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

type AvailabilityRepository struct {
	entityStore[model.Availability]
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{newEntityStore[model.Availability](db, "Availability")}
}

// Current returns the open availability interval of a resource.
func (r *AvailabilityRepository) Current(ctx context.Context, resourceID int) (*model.Availability, error) {
	var avail model.Availability
	err := r.db.WithContext(r.tag(ctx, "Current")).
		Where("resource_id = ? AND end_time IS NULL", resourceID).
		Order("start_time DESC").
		First(&avail).Error
	if err != nil {
		return nil, err
	}
	return &avail, nil
}
