package floor

import (
	"context"
	"strings"
)

func ValidateOrderCreate(ctx context.Context, req OrderCreateRequest) []string {
	var errors []string

	if strings.TrimSpace(req.MenuID) == "" {
		errors = append(errors, "menu_id is required")
	}

	if req.Quantity <= 0 {
		errors = append(errors, "quantity must be greater than 0")
	}

	return errors
}

func ValidateTimeAdjust(ctx context.Context, req TimeAdjustRequest) []string {
	var errors []string

	if req.DeltaMinutes == 0 {
		errors = append(errors, "delta_minutes must not be 0")
	}

	return errors
}

func ValidateCombine(ctx context.Context, req CombineRequest) []string {
	var errors []string

	if req.TargetID <= 0 {
		errors = append(errors, "target_id is required")
	}

	return errors
}

func ValidateMove(ctx context.Context, req MoveRequest) []string {
	var errors []string

	if req.TargetID <= 0 {
		errors = append(errors, "target_id is required")
	}

	return errors
}

func ValidateOrderGroupCancel(ctx context.Context, req OrderGroupCancelRequest) []string {
	var errors []string

	if len(req.OrderIDs) == 0 {
		errors = append(errors, "order_ids is required")
	}

	return errors
}

func ValidateMenuItemCreate(ctx context.Context, req MenuItemCreateRequest) []string {
	var errors []string

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, "name is required")
	}

	if req.Price <= 0 {
		errors = append(errors, "price must be greater than 0")
	}

	return errors
}

func ValidateMenuItemUpdate(ctx context.Context, req MenuItemUpdateRequest) []string {
	var errors []string

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, "name is required")
	}

	if req.Price <= 0 {
		errors = append(errors, "price must be greater than 0")
	}

	return errors
}
