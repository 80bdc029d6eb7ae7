package request

// ByIDRequest is a common struct for endpoints that take an ID path parameter.
// Catalog ids are free-form strings, so only presence is checked here.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required"`
}

// ByUUIDRequest is for endpoints whose ID is generated by the server.
type ByUUIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListParams holds the pagination query parameters shared by list endpoints.
type ListParams struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in defaults for missing pagination values.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
}
