package queue

import "garageQueue/models"

// nextStatus is the fixed order of the workshop cycle. There is no terminal
// state: a holdover order goes back to waiting.
var nextStatus = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusWaiting:    models.OrderStatusProcessing,
	models.OrderStatusProcessing: models.OrderStatusDone,
	models.OrderStatusDone:       models.OrderStatusHoldover,
	models.OrderStatusHoldover:   models.OrderStatusWaiting,
}

// Advance returns the successor of current, used by the tap-to-advance
// control on the admin queue table. Unknown values map to the initial status.
func Advance(current models.OrderStatus) models.OrderStatus {
	if next, ok := nextStatus[current]; ok {
		return next
	}
	return models.OrderStatusWaiting
}

// Assign returns chosen unchanged. Any status is reachable from any other
// through the status picker; callers must have parsed chosen already.
func Assign(_ models.OrderStatus, chosen models.OrderStatus) models.OrderStatus {
	return chosen
}
