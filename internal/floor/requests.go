package floor

type TimeAdjustRequest struct {
	DeltaMinutes int `json:"delta_minutes"`
}

type CombineRequest struct {
	TargetID int `json:"target_id"`
}

type MoveRequest struct {
	TargetID int `json:"target_id"`
}

type OrderCreateRequest struct {
	MenuID   string `json:"menu_id"`
	Quantity int    `json:"quantity"`
}

type OrderGroupCancelRequest struct {
	OrderIDs []string `json:"order_ids"`
}

type MenuItemCreateRequest struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type MenuItemUpdateRequest struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}
