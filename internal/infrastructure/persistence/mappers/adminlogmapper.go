package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/models"
)

// AdminLogToModel converts an audit entry for insertion.
func AdminLogToModel(e *auditlog.Entry) (*models.AdminLogModel, error) {
	oldValue, err := marshalJSONMap(e.OldValue())
	if err != nil {
		return nil, fmt.Errorf("failed to encode old value: %w", err)
	}
	newValue, err := marshalJSONMap(e.NewValue())
	if err != nil {
		return nil, fmt.Errorf("failed to encode new value: %w", err)
	}
	return &models.AdminLogModel{
		ID:        e.ID(),
		WebsiteID: e.WebsiteID(),
		UserID:    e.UserID(),
		Action:    e.Action(),
		OldValue:  oldValue,
		NewValue:  newValue,
		Reason:    e.Reason(),
		CreatedAt: e.CreatedAt(),
	}, nil
}

// AdminLogRowToView converts a joined row. Undecodable JSON is dropped
// rather than failing the whole page.
func AdminLogRowToView(row *models.AdminLogRow) *auditlog.EntryView {
	return &auditlog.EntryView{
		ID:            row.ID,
		WebsiteID:     row.WebsiteID,
		WebsiteDomain: deref(row.WebsiteDomain),
		WebsiteTitle:  deref(row.WebsiteTitle),
		UserID:        row.UserID,
		UserName:      deref(row.UserName),
		UserEmail:     deref(row.UserEmail),
		Action:        row.Action,
		OldValue:      unmarshalJSONMap(row.OldValue),
		NewValue:      unmarshalJSONMap(row.NewValue),
		Reason:        row.Reason,
		CreatedAt:     row.CreatedAt,
	}
}

func marshalJSONMap(v map[string]any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func unmarshalJSONMap(raw datatypes.JSON) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var v map[string]any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
