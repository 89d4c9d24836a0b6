package core

// PageFilter is the shared per_page/page pagination window of list queries.
type PageFilter struct {
	Page    int
	PerPage int
}

// OrDefaults fills in the backend's expected defaults.
func (f PageFilter) OrDefaults() PageFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 20
	}
	return f
}
