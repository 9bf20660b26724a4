package repositories

// ===== SHARED FILTER STRUCTS =====

type SpiritProfileFilters struct {
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "primary_score", "generated_at"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

type TraitCount struct {
	Trait string `json:"trait"`
	Count int64  `json:"count"`
}
