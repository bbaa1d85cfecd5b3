package handler

import (
	"strings"
	"time"

	"github.com/workgraphui/manager/database"
	"github.com/workgraphui/manager/entity"
	"github.com/workgraphui/manager/helper"
	"github.com/workgraphui/manager/model"
	"github.com/workgraphui/manager/table"
)

// NodeSource is the database-backed table.DataSource for server-rendered
// entity tables. It queries the node store directly instead of going
// through the HTTP API, but applies the same presentation to each row.
type NodeSource struct {
	db      database.NodeDBHandlerFunctions
	prefix  string
	columns map[string]string

	rows       []table.Row
	total      int
	pagination model.Pagination
	sort       []model.SortItem
	filter     *model.FilterModel
}

// NewNodeSource builds a source for the given entity with the default
// view-state: first page of 15 rows, newest pk first, no filter.
func NewNodeSource(db database.NodeDBHandlerFunctions, descriptor entity.Descriptor) *NodeSource {
	return &NodeSource{
		db:         db,
		prefix:     descriptor.TypePrefix(),
		columns:    descriptor.ColumnMap(),
		pagination: model.Pagination{PageIndex: 0, PageSize: 15},
		sort:       []model.SortItem{{Field: "pk", Order: "desc"}},
		filter:     &model.FilterModel{},
	}
}

func (s *NodeSource) Rows() []table.Row { return s.rows }

func (s *NodeSource) RowCount() int { return s.total }

func (s *NodeSource) Pagination() model.Pagination { return s.pagination }

func (s *NodeSource) SortModel() []model.SortItem { return s.sort }

func (s *NodeSource) FilterModel() *model.FilterModel { return s.filter }

func (s *NodeSource) SetPagination(pagination model.Pagination) error {
	s.pagination = pagination
	return s.Refetch()
}

func (s *NodeSource) SetSortModel(items []model.SortItem) error {
	s.sort = items
	return s.Refetch()
}

func (s *NodeSource) SetFilterModel(fm *model.FilterModel) error {
	s.filter = fm
	return s.Refetch()
}

// Refetch loads the current page slice from the node store.
func (s *NodeSource) Refetch() error {
	query := &database.PageQuery{
		TypePrefix: s.prefix,
		Skip:       s.pagination.Skip(),
		Limit:      s.pagination.PageSize,
		Filter:     s.filter,
		Columns:    s.columns,
	}
	if len(s.sort) > 0 {
		query.SortField = s.sort[0].Field
		query.SortOrder = s.sort[0].Order
	}

	rows, total, err := s.db.SelectNodePage(query)
	if err != nil {
		return err
	}

	page := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		presentRow(row)
		page = append(page, row)
	}

	s.rows = page
	s.total = total
	return nil
}

// presentRow converts raw store values into their display form: the
// creation time becomes a relative timestamp and the process state is
// shown capitalized.
func presentRow(row model.DataMap) {
	if ctime, ok := row["ctime"].(time.Time); ok {
		row["ctime"] = helper.TimeAgo(ctime)
	}
	if state, ok := row["state"].(string); ok {
		row["state"] = capitalize(state)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
