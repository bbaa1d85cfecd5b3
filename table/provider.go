package table

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/workgraphui/manager/model"
)

// DataSource is the state provider contract the table consumes: the
// current page slice, the total row count, and the mutable view-state.
// Setters are expected to re-query the backend; the table itself never
// pages, sorts or filters locally.
type DataSource interface {
	Rows() []Row
	RowCount() int
	Pagination() model.Pagination
	SetPagination(p model.Pagination) error
	SortModel() []model.SortItem
	SetSortModel(items []model.SortItem) error
	FilterModel() *model.FilterModel
	SetFilterModel(fm *model.FilterModel) error
	Refetch() error
}

// Provider is the HTTP DataSource over a `{endpointBase}-data` endpoint.
type Provider struct {
	client       *http.Client
	endpointBase string

	rows       []Row
	total      int
	pagination model.Pagination
	sort       []model.SortItem
	filter     *model.FilterModel
}

// NewProvider builds a provider with the backend's default view-state:
// first page of 15 rows, newest pk first, no filter.
func NewProvider(endpointBase string, client *http.Client) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		client:       client,
		endpointBase: endpointBase,
		pagination:   model.Pagination{PageIndex: 0, PageSize: 15},
		sort:         []model.SortItem{{Field: "pk", Order: "desc"}},
		filter:       &model.FilterModel{},
	}
}

func (p *Provider) Rows() []Row { return p.rows }

func (p *Provider) RowCount() int { return p.total }

func (p *Provider) Pagination() model.Pagination { return p.pagination }

func (p *Provider) SortModel() []model.SortItem { return p.sort }

func (p *Provider) FilterModel() *model.FilterModel { return p.filter }

// SetPagination stores the requested page state and re-queries.
func (p *Provider) SetPagination(pagination model.Pagination) error {
	p.pagination = pagination
	return p.Refetch()
}

// SetSortModel stores the requested sort state and re-queries.
func (p *Provider) SetSortModel(items []model.SortItem) error {
	p.sort = items
	return p.Refetch()
}

// SetFilterModel stores the requested filter state and re-queries.
func (p *Provider) SetFilterModel(fm *model.FilterModel) error {
	p.filter = fm
	return p.Refetch()
}

// Refetch loads the current page slice from the backend.
func (p *Provider) Refetch() error {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(p.pagination.Skip()))
	query.Set("limit", strconv.Itoa(p.pagination.PageSize))
	if len(p.sort) > 0 {
		query.Set("sortField", p.sort[0].Field)
		query.Set("sortOrder", p.sort[0].Order)
	}
	if p.filter != nil && (len(p.filter.Items) > 0 || len(p.filter.QuickFilterValues) > 0) {
		encoded, err := json.Marshal(p.filter)
		if err != nil {
			return fmt.Errorf("failed to encode filter model: %w", err)
		}
		query.Set("filterModel", string(encoded))
	}

	resp, err := p.client.Get(p.endpointBase + "-data?" + query.Encode())
	if err != nil {
		return fmt.Errorf("failed to fetch rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch rows: %s", resp.Status)
	}

	var payload struct {
		Total int   `json:"total"`
		Data  []Row `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode rows: %w", err)
	}

	p.rows = payload.Data
	p.total = payload.Total
	return nil
}
