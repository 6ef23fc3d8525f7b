package ussd

import (
	// Local Packages
	models "e-wale/models"
)

// Response builders. Pure formatters: they turn (label, message, input
// type) into the wire reply shape and hold no state.

// Reply prompts the subscriber for further input.
func Reply(sessionID, label, message, fieldType string) *models.TurnResponse {
	return &models.TurnResponse{
		SessionID: sessionID,
		Type:      models.ResponseContinue,
		Label:     label,
		Message:   message,
		DataType:  models.DataTypeInput,
		FieldType: fieldType,
	}
}

// Release ends the conversation with a terminal message.
func Release(sessionID, label, message string) *models.TurnResponse {
	return &models.TurnResponse{
		SessionID: sessionID,
		Type:      models.ResponseRelease,
		Label:     label,
		Message:   message,
		DataType:  models.DataTypeDisplay,
		FieldType: models.FieldTypeText,
	}
}

// AddToCart signals the gateway to hand over to mobile-money approval.
func AddToCart(sessionID, label, message string) *models.TurnResponse {
	return &models.TurnResponse{
		SessionID: sessionID,
		Type:      models.ResponseAddToCart,
		Label:     label,
		Message:   message,
		DataType:  models.DataTypeDisplay,
		FieldType: models.FieldTypeText,
	}
}
