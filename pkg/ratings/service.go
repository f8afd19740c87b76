// Package ratings exposes the RateMyProfessors search and fetch operations.
// Every operation is a single GraphQL round trip except
// GetAllProfessorsInDepartment, which follows the department listing's
// cursor until the last page.
package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/rmp-collector/pkg/client"
	"github.com/Sternrassler/rmp-collector/pkg/logging"
	"github.com/Sternrassler/rmp-collector/pkg/pagination"
	"github.com/rs/zerolog"
)

// PaginationPageSize is the page size requested for pages after the first.
const PaginationPageSize = 100

// ErrTeacherNotFound is returned when the teacher id resolves to nothing.
var ErrTeacherNotFound = errors.New("teacher not found")

// Runner executes one GraphQL request. *client.Client satisfies it.
type Runner interface {
	Run(ctx context.Context, r client.Request, out interface{}) error
}

// Service is the search/fetch façade over a Runner.
type Service struct {
	runner   Runner
	logger   zerolog.Logger
	progress pagination.ProgressFunc
	maxPages int
}

// Option configures a Service.
type Option func(*Service)

// WithProgress replaces the default progress logging of
// GetAllProfessorsInDepartment. A nil func disables notifications.
func WithProgress(fn pagination.ProgressFunc) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// WithMaxPages caps the number of pages GetAllProfessorsInDepartment
// fetches. Zero (the default) means unbounded.
func WithMaxPages(n int) Option {
	return func(s *Service) {
		s.maxPages = n
	}
}

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a façade over runner.
func NewService(runner Runner, opts ...Option) *Service {
	s := &Service{
		runner: runner,
		logger: logging.NewLogger("ratings"),
	}
	s.progress = s.logProgress
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) logProgress(fetched, total int) {
	s.logger.Info().
		Int("fetched", fetched).
		Int("total", total).
		Msgf("Fetched %d new professors, %d total", fetched, total)
}

// SearchSchool returns the schools matching a free-text query.
func (s *Service) SearchSchool(ctx context.Context, query string) ([]School, error) {
	var resp struct {
		Autocomplete struct {
			Schools struct {
				Edges []struct {
					Node School `json:"node"`
				} `json:"edges"`
			} `json:"schools"`
		} `json:"autocomplete"`
	}

	err := s.runner.Run(ctx, client.Request{
		Operation: OpAutocompleteSchool,
		Document:  autocompleteSchoolQuery,
		Variables: map[string]interface{}{"query": query},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("search school %q: %w", query, err)
	}

	schools := make([]School, 0, len(resp.Autocomplete.Schools.Edges))
	for _, edge := range resp.Autocomplete.Schools.Edges {
		schools = append(schools, edge.Node)
	}
	return schools, nil
}

// SearchTeacher returns the teachers of a school matching name. A null
// result from the upstream is an empty list, not an error.
func (s *Service) SearchTeacher(ctx context.Context, name, schoolID string) ([]TeacherSearchResult, error) {
	var resp struct {
		NewSearch struct {
			Teachers *struct {
				Edges []struct {
					Node TeacherSearchResult `json:"node"`
				} `json:"edges"`
			} `json:"teachers"`
		} `json:"newSearch"`
	}

	err := s.runner.Run(ctx, client.Request{
		Operation: OpSearchTeacher,
		Document:  searchTeacherQuery,
		Variables: map[string]interface{}{
			"text":     name,
			"schoolID": schoolID,
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("search teacher %q: %w", name, err)
	}

	if resp.NewSearch.Teachers == nil {
		return []TeacherSearchResult{}, nil
	}

	teachers := make([]TeacherSearchResult, 0, len(resp.NewSearch.Teachers.Edges))
	for _, edge := range resp.NewSearch.Teachers.Edges {
		teachers = append(teachers, edge.Node)
	}
	return teachers, nil
}

// GetTeacher fetches one teacher's rating page by id.
func (s *Service) GetTeacher(ctx context.Context, id string) (*Teacher, error) {
	var resp struct {
		Node *Teacher `json:"node"`
	}

	err := s.runner.Run(ctx, client.Request{
		Operation: OpTeacherRatingsPage,
		Document:  teacherRatingsPageQuery,
		Variables: map[string]interface{}{"id": id},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get teacher %q: %w", id, err)
	}
	if resp.Node == nil {
		return nil, fmt.Errorf("get teacher %q: %w", id, ErrTeacherNotFound)
	}
	return resp.Node, nil
}

// GetDepartmentFirstPage fetches the first page of a department listing.
func (s *Service) GetDepartmentFirstPage(ctx context.Context, q DepartmentQuery) (*DepartmentResult, error) {
	var resp DepartmentResult

	err := s.runner.Run(ctx, client.Request{
		Operation: OpDepartmentFirstPage,
		Document:  departmentFirstPageQuery,
		Variables: map[string]interface{}{
			"query":    q.Query,
			"schoolID": q.SchoolID,
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get department first page: %w", err)
	}
	return &resp, nil
}

// GetDepartmentPagination fetches the single page after q.Cursor.
func (s *Service) GetDepartmentPagination(ctx context.Context, q PaginationQuery) (*DepartmentResult, error) {
	var resp DepartmentResult

	err := s.runner.Run(ctx, client.Request{
		Operation: OpDepartmentPage,
		Document:  departmentPaginationQuery,
		Variables: map[string]interface{}{
			"count":  q.Count,
			"cursor": q.Cursor,
			"query":  q.Query,
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get department page after %q: %w", q.Cursor, err)
	}
	return &resp, nil
}

// GetAllProfessorsInDepartment fetches every page of a department listing
// and returns them merged: the first page's response with its edges
// replaced by all edges in fetch order and its page info by the last
// page's. No partial result is returned on error.
func (s *Service) GetAllProfessorsInDepartment(ctx context.Context, q DepartmentQuery) (*DepartmentResult, error) {
	fetcher := &departmentFetcher{service: s, query: q}
	acc := pagination.NewAccumulator[TeacherEdge](pagination.Options{
		Progress: s.progress,
		MaxPages: s.maxPages,
	})

	s.logger.Info().
		Str("school_id", q.SchoolID).
		Str("department_id", q.Query.DepartmentID).
		Msg("Fetching all professors in department")

	page, err := acc.FetchAll(ctx, fetcher)
	if err != nil {
		return nil, fmt.Errorf("get all professors in department %q of school %q: %w",
			q.Query.DepartmentID, q.SchoolID, err)
	}

	result := *fetcher.first
	result.Search.Teachers.Edges = page.Entries
	result.Search.Teachers.PageInfo = PageInfo{
		HasNextPage: page.HasNextPage,
		EndCursor:   page.EndCursor,
	}

	s.logger.Info().
		Str("school_id", q.SchoolID).
		Str("department_id", q.Query.DepartmentID).
		Int("total", len(page.Entries)).
		Msg("Department listing complete")

	return &result, nil
}

// departmentFetcher binds a DepartmentQuery to the accumulator. Every page
// after the first is requested with the initiating school and department,
// an empty text filter, fallback enabled and PaginationPageSize entries.
type departmentFetcher struct {
	service *Service
	query   DepartmentQuery
	first   *DepartmentResult
}

func (f *departmentFetcher) FetchFirst(ctx context.Context) (pagination.Page[TeacherEdge], error) {
	resp, err := f.service.GetDepartmentFirstPage(ctx, f.query)
	if err != nil {
		return pagination.Page[TeacherEdge]{}, err
	}
	f.first = resp
	return connectionPage(resp.Search.Teachers), nil
}

func (f *departmentFetcher) FetchNext(ctx context.Context, cursor string) (pagination.Page[TeacherEdge], error) {
	resp, err := f.service.GetDepartmentPagination(ctx, f.nextQuery(cursor))
	if err != nil {
		return pagination.Page[TeacherEdge]{}, err
	}
	return connectionPage(resp.Search.Teachers), nil
}

func (f *departmentFetcher) nextQuery(cursor string) PaginationQuery {
	return PaginationQuery{
		Count:  PaginationPageSize,
		Cursor: cursor,
		Query: TeacherSearchQuery{
			Text:         "",
			SchoolID:     f.query.SchoolID,
			Fallback:     true,
			DepartmentID: f.query.Query.DepartmentID,
		},
	}
}

func connectionPage(conn TeacherConnection) pagination.Page[TeacherEdge] {
	return pagination.Page[TeacherEdge]{
		Entries:     conn.Edges,
		EndCursor:   conn.PageInfo.EndCursor,
		HasNextPage: conn.PageInfo.HasNextPage,
	}
}
