package dto

import (
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/usagelog"
	"github.com/ns-ai-search/console/internal/infrastructure/credits"
)

// ListAdminLogsRequest filters the audit trail
type ListAdminLogsRequest struct {
	WebsiteID *uint  `form:"website_id"`
	Action    string `form:"action" binding:"max=64"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// ListUsageLogsRequest filters locally stored usage logs
type ListUsageLogsRequest struct {
	WebsiteID *uint  `form:"website_id"`
	Operation string `form:"operation" binding:"omitempty,oneof=content query"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

type AdminLogsResponse struct {
	Items      []*auditlog.EntryView `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

type UsageLogsResponse struct {
	Items      []*usagelog.Entry `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// RemoteUsageLogsResponse is one page of usage logs held by the credits
// backend for a single website.
type RemoteUsageLogsResponse struct {
	WebsiteID  uint               `json:"website_id"`
	Domain     string             `json:"domain"`
	Items      []credits.UsageLog `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}
