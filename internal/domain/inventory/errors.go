package inventory

import "errors"

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("adjustment would drive stock below zero")
)
