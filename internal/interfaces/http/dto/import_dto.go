package dto

import csvimport "github.com/garimpo/backend/internal/infrastructure/import"

// ImportResultResponse represents the report of one catalog import run
// @Description Report of a Shopee CSV import run
type ImportResultResponse struct {
	Imported int                     `json:"imported" example:"12"`
	Updated  int                     `json:"updated" example:"3"`
	Ignored  int                     `json:"ignored" example:"1"`
	Enriched int                     `json:"enriched,omitempty" example:"10"`
	Errors   []csvimport.ImportError `json:"errors"`
}
