package ratings

// School is a school as returned by the autocomplete search.
type School struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// SchoolRef is the abbreviated school attached to teacher search results.
type SchoolRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeacherSearchResult is a teacher as returned by the name search.
type TeacherSearchResult struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	School    SchoolRef `json:"school"`
}

// Teacher is a teacher with rating aggregates.
type Teacher struct {
	ID                    string  `json:"id"`
	LegacyID              int     `json:"legacyId"`
	FirstName             string  `json:"firstName"`
	LastName              string  `json:"lastName"`
	AvgDifficulty         float64 `json:"avgDifficulty"`
	AvgRating             float64 `json:"avgRating"`
	NumRatings            int     `json:"numRatings"`
	WouldTakeAgainPercent float64 `json:"wouldTakeAgainPercent"`
	Department            string  `json:"department"`
	School                School  `json:"school"`
	IsSaved               bool    `json:"isSaved"`
}

// TeacherEdge is one entry of a teacher connection.
type TeacherEdge struct {
	Cursor string  `json:"cursor"`
	Node   Teacher `json:"node"`
}

// PageInfo is the pagination metadata of a connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// TeacherConnection is one page of department search results.
type TeacherConnection struct {
	DidFallback bool          `json:"didFallback"`
	Edges       []TeacherEdge `json:"edges"`
	PageInfo    PageInfo      `json:"pageInfo"`
	ResultCount int           `json:"resultCount"`
}

// DepartmentSearch wraps the teacher connection.
type DepartmentSearch struct {
	Teachers TeacherConnection `json:"teachers"`
}

// SchoolNode is the school resolved alongside a department's first page.
type SchoolNode struct {
	Typename string `json:"__typename"`
	ID       string `json:"id"`
	Name     string `json:"name"`
}

// DepartmentResult is a department page or an accumulated department
// listing. Its JSON form is what downstream review collection reads
// (search.teachers.edges[].node).
type DepartmentResult struct {
	Search DepartmentSearch `json:"search"`
	School *SchoolNode      `json:"school,omitempty"`
}

// TeacherSearchQuery is the filter the department queries accept.
type TeacherSearchQuery struct {
	Text         string `json:"text"`
	SchoolID     string `json:"schoolID"`
	Fallback     bool   `json:"fallback"`
	DepartmentID string `json:"departmentID"`
}

// DepartmentQuery scopes a department listing. An empty DepartmentID
// selects every department of the school.
type DepartmentQuery struct {
	Query    TeacherSearchQuery `json:"query"`
	SchoolID string             `json:"schoolID"`
}

// PaginationQuery requests the page after Cursor.
type PaginationQuery struct {
	Count  int                `json:"count"`
	Cursor string             `json:"cursor"`
	Query  TeacherSearchQuery `json:"query"`
}

// NewDepartmentQuery builds the query for every teacher of one department
// (or of the whole school when departmentID is empty).
func NewDepartmentQuery(schoolID, departmentID string) DepartmentQuery {
	return DepartmentQuery{
		Query: TeacherSearchQuery{
			Text:         "",
			SchoolID:     schoolID,
			Fallback:     true,
			DepartmentID: departmentID,
		},
		SchoolID: schoolID,
	}
}
