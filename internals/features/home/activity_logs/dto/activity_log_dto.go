package dto

type ActivityLogQuery struct {
	Action     string `query:"action" validate:"omitempty,max=60"`
	EntityType string `query:"entity_type" validate:"omitempty,max=60"`
	EntityID   string `query:"entity_id" validate:"omitempty,uuid"`
}
