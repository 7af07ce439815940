package report

import (
	"time"

	"github.com/google/uuid"
)

// Query is the query string accepted by every report endpoint. From and To
// are inclusive calendar dates.
type Query struct {
	Format      string     `form:"format" binding:"omitempty,oneof=json csv xlsx pdf"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	StoreID     *uuid.UUID `form:"store_id" parser:"encoding.TextUnmarshaler"`
	WarehouseID *uuid.UUID `form:"warehouse_id" parser:"encoding.TextUnmarshaler"`
	LowStock    bool       `form:"low_stock"`
	Month       int        `form:"month" binding:"omitempty,min=1,max=12"`
	Year        int        `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// Result is the JSON form of a report
type Result struct {
	Type     string      `json:"type"`
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Count    int         `json:"count"`
	Rows     interface{} `json:"rows"`
}

// File is a rendered export
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ArchiveResponse describes an archived export
type ArchiveResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Size      int       `json:"size"`
}
