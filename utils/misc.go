package utils

import (
	"github.com/centraldaresenha/go-booking/entities"
)

// GetFieldName resolves a field id against a venue snapshot.
func GetFieldName(fieldID int, fields []entities.Field) string {
	for _, field := range fields {
		if field.ID == fieldID {
			return field.Name
		}
	}
	return ""
}
