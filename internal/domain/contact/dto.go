// internal/domain/contact/dto.go
package contact

type CreateContactRequest struct {
	Name   string `json:"name" binding:"required,max=255"`
	Phone  string `json:"phone" binding:"required,max=20"`
	Stage  Stage  `json:"stage"`
	UserID string `json:"user_id"`
}

type UpdateContactRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=255"`
	Phone  *string `json:"phone" binding:"omitempty,max=20"`
	Stage  *Stage  `json:"stage"`
	UserID *string `json:"user_id"`
}

type MoveStageRequest struct {
	Stage Stage `json:"stage" binding:"required"`
}

type ContactListFilters struct {
	Stage    Stage  `form:"stage"`
	Search   string `form:"search"` // name or phone
	TagID    string `form:"tag_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type ContactListResponse struct {
	Contacts   []ContactWithTags `json:"contacts"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// ContactWithTags is the kanban card shape: the contact plus its tag names.
type ContactWithTags struct {
	Contact
	Tags []string `json:"tags"`
}
