package query

import "github.com/sarathaj/User-Management/internal/application/common"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ListTasksQuery struct {
	Owner    common.Identity
	Search   string
	Ordering string
	Page     int
	PageSize int
}

type TaskPageResult struct {
	Count    int64
	Page     int
	PageSize int
	Results  []*common.TaskResult
}

// Pages returns how many pages Count spans. An empty result still has one.
func (r *TaskPageResult) Pages() int64 {
	if r.Count <= 0 || r.PageSize <= 0 {
		return 1
	}
	return (r.Count-1)/int64(r.PageSize) + 1
}

// HasNext reports whether a page follows this one.
func (r *TaskPageResult) HasNext() bool {
	return int64(r.Page) < r.Pages()
}

func (r *TaskPageResult) HasPrevious() bool {
	return r.Page > 1
}
