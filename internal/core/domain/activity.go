package domain

import "time"

// ActivityLog is an append-only audit record of a back-office action.
type ActivityLog struct {
	ActivityID string         `json:"activityID"`
	ActorID    string         `json:"actorID"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityID"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Actions recorded by the back-office.
const (
	ActionPOSSale           = "pos_sale"
	ActionPOSRefund         = "pos_refund"
	ActionInventoryAdjust   = "inventory_adjustment"
	ActionOrderStatusUpdate = "order_status_update"
	ActionOrderCreated      = "order_created"
	ActionProductCreated    = "product_created"
	ActionCustomerCreated   = "customer_created"
)

// Entity types referenced by activity logs.
const (
	EntityPOSTransaction = "pos_transaction"
	EntityProduct        = "product"
	EntityOrder          = "order"
	EntityCustomer       = "customer"
)
