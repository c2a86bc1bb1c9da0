package dashboard

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/jwalitptl/medspa-api/internal/model"
)

type PatientAPI interface {
	ListPatients(ctx context.Context, params model.PatientParams) (model.Page[model.Patient], error)
	GetPatient(ctx context.Context, id string) (model.PatientDetail, error)
}

type ProviderAPI interface {
	ListProviders(ctx context.Context, params model.ProviderParams) (model.Page[model.ProviderSummary], error)
}

// pagedList is a Resource over the first page plus append-only LoadMore.
type pagedList[T any] struct {
	*Resource[model.Page[T]]
	fetchPage   func(ctx context.Context, cursor string) (model.Page[T], error)
	loadingMore atomic.Bool
}

func newPagedList[T any](name string, opts Options, key func() string, fetchPage func(context.Context, string) (model.Page[T], error)) *pagedList[T] {
	l := &pagedList[T]{fetchPage: fetchPage}
	l.Resource = newResource(name, func(ctx context.Context) (model.Page[T], error) {
		return fetchPage(ctx, "")
	}, opts, key)
	return l
}

// LoadMore appends the next page. It is a no-op while another LoadMore or a
// first-page load is in flight, or when there is nothing more to load.
func (l *pagedList[T]) LoadMore(ctx context.Context) error {
	st := l.State()
	if st.Status != StatusReady || st.Loading || !st.Data.HasMore || st.Data.NextCursor == nil {
		return nil
	}
	if !l.loadingMore.CompareAndSwap(false, true) {
		return nil
	}
	defer l.loadingMore.Store(false)

	// Reuse the current token: a reset issued meanwhile invalidates this append.
	token := l.guard.peek()
	page, err := l.fetchPage(ctx, *st.Data.NextCursor)

	if !l.commit(token, func(s *State[model.Page[T]]) {
		if err != nil {
			s.Err = err
			return
		}
		s.Data.Data = append(s.Data.Data, page.Data...)
		s.Data.NextCursor = page.NextCursor
		s.Data.HasMore = page.HasMore
		s.Data.Total = page.Total
		s.Err = nil
	}) {
		return ErrSuperseded
	}
	return err
}

// LoadingMore reports whether an append is in flight.
func (l *pagedList[T]) LoadingMore() bool {
	return l.loadingMore.Load()
}

// searchBox separates what the user typed from what is being queried.
type searchBox struct {
	mu        sync.RWMutex
	visible   string
	effective string
	debouncer *Debouncer
}

func newSearchBox(initial string, opts Options) *searchBox {
	quiet := opts.QuietPeriod
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &searchBox{visible: initial, effective: initial, debouncer: NewDebouncer(quiet)}
}

// set records the typed value and schedules apply once typing pauses.
func (s *searchBox) set(value string, apply func()) {
	s.mu.Lock()
	s.visible = value
	s.mu.Unlock()

	s.debouncer.Trigger(func() {
		s.mu.Lock()
		if s.effective == value {
			s.mu.Unlock()
			return
		}
		s.effective = value
		s.mu.Unlock()
		apply()
	})
}

// submit applies value immediately, dropping any pending debounced value.
func (s *searchBox) submit(value string) {
	s.debouncer.Stop()
	s.mu.Lock()
	s.visible = value
	s.effective = value
	s.mu.Unlock()
}

func (s *searchBox) values() (visible, effective string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible, s.effective
}

func cacheKey(name string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return name + "?" + enc
	}
	return name
}

// PatientList drives the searchable, filterable patient table.
type PatientList struct {
	*pagedList[model.Patient]

	ctx    context.Context
	cancel context.CancelFunc
	api    PatientAPI
	search *searchBox

	mu     sync.RWMutex
	params model.PatientParams
}

// NewPatientList starts from params; nothing is fetched until Load or Refresh.
func NewPatientList(ctx context.Context, api PatientAPI, params model.PatientParams, opts Options) *PatientList {
	ctx, cancel := context.WithCancel(ctx)
	params.Cursor = ""
	l := &PatientList{
		ctx:    ctx,
		cancel: cancel,
		api:    api,
		search: newSearchBox(params.Search, opts),
		params: params,
	}
	l.pagedList = newPagedList("patients", opts, l.key, l.fetchPage)
	return l
}

func (l *PatientList) fetchPage(ctx context.Context, cursor string) (model.Page[model.Patient], error) {
	p := l.Params()
	p.Cursor = cursor
	return l.api.ListPatients(ctx, p)
}

func (l *PatientList) key() string {
	p := l.Params()
	q := url.Values{}
	setValue(q, "search", p.Search)
	setValue(q, "gender", string(p.Gender))
	setValue(q, "source", string(p.Source))
	setValue(q, "sortBy", p.SortBy)
	setValue(q, "sortOrder", string(p.SortOrder))
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return cacheKey(l.name, q)
}

// Params returns the parameters currently used for queries.
func (l *PatientList) Params() model.PatientParams {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.params
}

// Search returns what the user typed, which may not be queried yet.
func (l *PatientList) Search() string {
	visible, _ := l.search.values()
	return visible
}

// SetSearch updates the visible search immediately and queries after the quiet period.
func (l *PatientList) SetSearch(value string) {
	l.search.set(value, func() {
		l.update(func(p *model.PatientParams) { p.Search = value })
		_ = l.Refresh(l.ctx)
	})
	l.changed()
}

// SubmitSearch queries value right away, as when the user presses enter.
func (l *PatientList) SubmitSearch(ctx context.Context, value string) error {
	l.search.submit(value)
	l.update(func(p *model.PatientParams) { p.Search = value })
	return l.Refresh(ctx)
}

func (l *PatientList) SetGender(ctx context.Context, g model.Gender) error {
	l.update(func(p *model.PatientParams) { p.Gender = g })
	return l.Refresh(ctx)
}

func (l *PatientList) SetSource(ctx context.Context, s model.Source) error {
	l.update(func(p *model.PatientParams) { p.Source = s })
	return l.Refresh(ctx)
}

func (l *PatientList) SetSort(ctx context.Context, sortBy string, order model.SortOrder) error {
	l.update(func(p *model.PatientParams) {
		p.SortBy = sortBy
		p.SortOrder = order
	})
	return l.Refresh(ctx)
}

func (l *PatientList) update(fn func(*model.PatientParams)) {
	l.mu.Lock()
	fn(&l.params)
	l.params.Cursor = ""
	l.mu.Unlock()
}

// Close drops pending debounced searches and cancels their requests.
func (l *PatientList) Close() {
	l.search.debouncer.Stop()
	l.cancel()
}

// ProviderList drives the searchable provider table.
type ProviderList struct {
	*pagedList[model.ProviderSummary]

	ctx    context.Context
	cancel context.CancelFunc
	api    ProviderAPI
	search *searchBox

	mu     sync.RWMutex
	params model.ProviderParams
}

func NewProviderList(ctx context.Context, api ProviderAPI, params model.ProviderParams, opts Options) *ProviderList {
	ctx, cancel := context.WithCancel(ctx)
	params.Cursor = ""
	l := &ProviderList{
		ctx:    ctx,
		cancel: cancel,
		api:    api,
		search: newSearchBox(params.Search, opts),
		params: params,
	}
	l.pagedList = newPagedList("providers", opts, l.key, l.fetchPage)
	return l
}

func (l *ProviderList) fetchPage(ctx context.Context, cursor string) (model.Page[model.ProviderSummary], error) {
	p := l.Params()
	p.Cursor = cursor
	return l.api.ListProviders(ctx, p)
}

func (l *ProviderList) key() string {
	p := l.Params()
	q := url.Values{}
	setValue(q, "search", p.Search)
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return cacheKey(l.name, q)
}

func (l *ProviderList) Params() model.ProviderParams {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.params
}

func (l *ProviderList) Search() string {
	visible, _ := l.search.values()
	return visible
}

func (l *ProviderList) SetSearch(value string) {
	l.search.set(value, func() {
		l.mu.Lock()
		l.params.Search = value
		l.params.Cursor = ""
		l.mu.Unlock()
		_ = l.Refresh(l.ctx)
	})
	l.changed()
}

func (l *ProviderList) Close() {
	l.search.debouncer.Stop()
	l.cancel()
}

func setValue(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
