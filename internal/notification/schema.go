package notification

import (
	"market-admin/internal/common/validation"
	"market-admin/internal/models"
)

// wireSchema is the record shape the client apps deserialize.
var wireSchema = validation.MustCompile(map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []interface{}{"Id", "UserId", "Title", "Body", "Type", "CreatedAt", "IsRead"},
	"properties": map[string]interface{}{
		"Id":     map[string]interface{}{"type": "string", "pattern": "^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$"},
		"UserId": map[string]interface{}{"type": "string", "minLength": 1},
		"Title":  map[string]interface{}{"type": "string"},
		"Body":   map[string]interface{}{"type": "string"},
		"Type": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{
				models.NotificationTypeApproval,
				models.NotificationTypeRejection,
				models.NotificationTypeBroadcast,
				models.NotificationTypeGeneral,
			},
		},
		"RelatedMarketId": map[string]interface{}{"type": "string"},
		"CreatedAt":       map[string]interface{}{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}$`},
		"IsRead":          map[string]interface{}{"type": "boolean"},
	},
})
