package models

import "time"

type Exercise struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Muscles     []string  `json:"muscles"`
	Description string    `json:"description"`
	Notes       *string   `json:"notes,omitempty"`
	MediaURL    *string   `json:"media_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
