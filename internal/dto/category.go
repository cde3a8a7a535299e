package dto

// CategoryResponse is the category record exposed on the wire.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryListResponse wraps the category list.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}
