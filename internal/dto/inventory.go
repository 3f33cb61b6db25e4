package dto

import "github.com/rhq-project/rhq-coregui/internal/model"

type UpdateResourceRequest struct {
	ID          int    `json:"id" binding:"required,gt=0"`
	Name        string `json:"name" binding:"required,max=500"`
	Description string `json:"description" binding:"max=1000"`
	Location    string `json:"location" binding:"max=100"`
}

func (r UpdateResourceRequest) Model() *model.Resource {
	return &model.Resource{ID: r.ID, Name: r.Name, Description: r.Description, Location: r.Location}
}

type UninventoryResponse struct {
	ResourceIDs []int `json:"resource_ids"`
}

type IgnoreFlagRequest struct {
	IDs     []int `json:"ids" binding:"required,min=1"`
	Ignored bool  `json:"ignored"`
}

type ResourceGroupRequest struct {
	ID          int    `json:"id"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=100"`
	Recursive   bool   `json:"recursive"`
}

func (r ResourceGroupRequest) Model() *model.ResourceGroup {
	return &model.ResourceGroup{ID: r.ID, Name: r.Name, Description: r.Description, Recursive: r.Recursive}
}

type SaveResourceGroupRequest struct {
	Group ResourceGroupRequest `json:"group"`
}

type AssignResourcesRequest struct {
	GroupID     int   `json:"group_id" binding:"required,gt=0"`
	ResourceIDs []int `json:"resource_ids"`
}

type ResourceRequest struct {
	ResourceID int `json:"resource_id" binding:"required,gt=0"`
}

type AlertConditionRequest struct {
	Category   model.AlertConditionCategory `json:"category" binding:"required"`
	Name       string                       `json:"name" binding:"max=100"`
	Comparator string                       `json:"comparator" binding:"omitempty,oneof=< > = <= >= !="`
	Threshold  *float64                     `json:"threshold"`
	Option     string                       `json:"option" binding:"max=256"`
}

type AlertDefinitionRequest struct {
	ID                  int                     `json:"id"`
	Name                string                  `json:"name" binding:"required,max=100"`
	Description         string                  `json:"description" binding:"max=250"`
	Priority            model.AlertPriority     `json:"priority" binding:"required"`
	Enabled             *bool                   `json:"enabled"`
	ResourceID          int                     `json:"resource_id" binding:"required,gt=0"`
	ConditionExpression model.BooleanExpression `json:"condition_expression"`
	WillRecover         bool                    `json:"will_recover"`
	RecoveryID          int                     `json:"recovery_id"`
	Conditions          []AlertConditionRequest `json:"conditions" binding:"dive"`
}

// Model builds the definition entity. An omitted enabled flag means enabled.
func (r AlertDefinitionRequest) Model() *model.AlertDefinition {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	def := &model.AlertDefinition{
		ID:                  r.ID,
		Name:                r.Name,
		Description:         r.Description,
		Priority:            r.Priority,
		Enabled:             enabled,
		ResourceID:          r.ResourceID,
		ConditionExpression: r.ConditionExpression,
		WillRecover:         r.WillRecover,
		RecoveryID:          r.RecoveryID,
	}
	for _, c := range r.Conditions {
		def.Conditions = append(def.Conditions, model.AlertCondition{
			AlertDefinitionID: r.ID,
			Category:          c.Category,
			Name:              c.Name,
			Comparator:        c.Comparator,
			Threshold:         c.Threshold,
			Option:            c.Option,
		})
	}
	return def
}

type SaveAlertDefinitionRequest struct {
	Definition AlertDefinitionRequest `json:"definition"`
}

type EventCountsResponse struct {
	Counts map[model.EventSeverity]int64 `json:"counts"`
}
