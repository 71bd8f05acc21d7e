package model

// Pagination mirrors the upstream paging envelope.
type Pagination struct {
	Total int `json:"total"` // total matching rows
	Page  int `json:"page"`  // 1-based page
	Limit int `json:"limit"` // page size
	Pages int `json:"pages"` // total pages
}
