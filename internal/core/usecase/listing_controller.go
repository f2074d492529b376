package usecase

import (
	"context"
	"fmt"
	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ListingControllerOptions - необязательные зависимости и параметры контроллера.
type ListingControllerOptions struct {
	SessionID string
	PageSize  int
	// Events и Notifier могут быть nil
	Events   port.MutationEventsPort
	Notifier port.NotifierPort
}

// ListingController управляет одним представлением списка объектов:
// областью, поиском, пагинацией, текущим снимком и текущей ошибкой.
//
// Все запросы к каталогу выполняются вне мьютекса. Каждый запрос списка получает
// порядковый номер, и применяется только ответ на последний выданный запрос.
type ListingController struct {
	catalog   port.PropertyCatalogPort
	landlords port.LandlordDirectoryPort
	events    port.MutationEventsPort
	notifier  port.NotifierPort
	sessionID string

	mu         sync.Mutex
	pagination *domain.PaginationState
	scope      domain.ListingScope
	search     *domain.SearchState
	issuedSeq  uint64

	state      domain.ControllerState
	snapshot   domain.ListingSnapshot
	failure    *domain.ErrorDescriptor
	statistics *domain.LandlordStatistics
}

func NewListingController(catalog port.PropertyCatalogPort, landlords port.LandlordDirectoryPort, opts ListingControllerOptions) *ListingController {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	pagination := domain.NewPaginationState(pageSize)

	return &ListingController{
		catalog:    catalog,
		landlords:  landlords,
		events:     opts.Events,
		notifier:   opts.Notifier,
		sessionID:  opts.SessionID,
		pagination: pagination,
		scope:      domain.GlobalScope(),
		state:      domain.StateIdle,
		snapshot: domain.ListingSnapshot{
			Items:  []domain.PropertySummary{},
			Cursor: pagination.Cursor(),
			Scope:  domain.GlobalScope(),
		},
	}
}

// listingTicket - выданный, но еще не выполненный запрос списка.
type listingTicket struct {
	operation string
	seq       uint64
	request   domain.CatalogRequest
	pageSize  int
	scope     domain.ListingScope
	search    *domain.SearchState
}

// Activate начинает наблюдение за областью. Для области арендодателя параллельно
// загружается его статистика.
func (c *ListingController) Activate(ctx context.Context, scope domain.ListingScope) error {
	if scope.IsLandlord() && scope.LandlordID <= 0 {
		return fmt.Errorf("%w: landlord id must be positive, got %d", domain.ErrValidation, scope.LandlordID)
	}

	ticket := c.issue("activate", func() domain.CursorDirective {
		if scope != c.scope {
			// Статистика прежнего арендодателя не должна пережить смену области
			c.statistics = nil
		}
		c.scope = scope
		return c.pagination.Observe(c.scope, c.search)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.complete(gctx, ticket)
	})
	if scope.IsLandlord() {
		// Ошибка статистики не отменяет загрузку списка: горутина всегда возвращает nil.
		g.Go(func() error {
			c.loadStatistics(ctx, scope)
			return nil
		})
	}
	return g.Wait()
}

// ApplySearch включает поиск по ключевому слову. nil, пустая строка или строка из
// одних пробелов выключают поиск. Непустое слово уходит в каталог как есть.
func (c *ListingController) ApplySearch(ctx context.Context, keyword *string) error {
	var search *domain.SearchState
	if keyword != nil && strings.TrimSpace(*keyword) != "" {
		search = &domain.SearchState{Keyword: *keyword}
	}

	ticket := c.issue("search", func() domain.CursorDirective {
		c.search = search
		return c.pagination.Observe(c.scope, c.search)
	})
	return c.complete(ctx, ticket)
}

func (c *ListingController) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", domain.ErrValidation, size)
	}
	ticket := c.issue("set_page_size", func() domain.CursorDirective {
		return c.pagination.SetPageSize(size)
	})
	return c.complete(ctx, ticket)
}

func (c *ListingController) GoToPage(ctx context.Context, page int) error {
	if page < 1 {
		return fmt.Errorf("%w: page number must be >= 1, got %d", domain.ErrValidation, page)
	}
	ticket := c.issue("go_to_page", func() domain.CursorDirective {
		return c.pagination.GoToPage(page)
	})
	return c.complete(ctx, ticket)
}

// Refresh повторяет запрос с текущими параметрами, не трогая курсор.
func (c *ListingController) Refresh(ctx context.Context) error {
	ticket := c.issue("refresh", func() domain.CursorDirective {
		return domain.CursorDirective{Kind: domain.KeepPage, Cursor: c.pagination.Cursor()}
	})
	return c.complete(ctx, ticket)
}

// issue под мьютексом применяет изменение параметров и выдает номер запроса.
func (c *ListingController) issue(operation string, prepare func() domain.CursorDirective) listingTicket {
	c.mu.Lock()
	defer c.mu.Unlock()

	directive := prepare()
	c.issuedSeq++
	c.state = domain.StateLoading

	return listingTicket{
		operation: operation,
		seq:       c.issuedSeq,
		request:   domain.BuildCatalogRequest(c.scope, c.search, directive.Cursor),
		pageSize:  directive.Cursor.PageSize,
		scope:     c.scope,
		search:    copySearch(c.search),
	}
}

// complete выполняет запрос и применяет ответ, если он все еще самый свежий.
// Устаревшие ответы (и успешные, и ошибочные) отбрасываются молча.
func (c *ListingController) complete(ctx context.Context, t listingTicket) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "ListingController",
		"session_id": c.sessionID,
		"operation":  t.operation,
		"seq":        t.seq,
		"mode":       t.request.Mode.String(),
	})

	logger.Debug("Fetching catalog page", port.Fields{"url": t.request.RelativeURL()})
	page, err := c.catalog.FetchPage(ctx, t.request)

	c.mu.Lock()
	if t.seq != c.issuedSeq {
		latest := c.issuedSeq
		c.mu.Unlock()
		logger.Debug("Discarding stale catalog response", port.Fields{"latest_seq": latest})
		return nil
	}

	if err != nil {
		failure := domain.DescribeError(t.operation, err)
		c.failure = failure
		c.state = domain.StateFailed
		c.mu.Unlock()

		logger.Error("Catalog query failed", err, nil)
		c.notify(ctx, port.ListingEvent{Type: port.EventFailure, Failure: failure})
		return err
	}

	snapshot := ProjectPage(*page, t.pageSize, t.scope, t.search, t.seq)
	c.snapshot = snapshot
	c.pagination.Commit(snapshot.Cursor)
	c.failure = nil
	c.state = domain.StateReady
	c.mu.Unlock()

	logger.Info("Catalog page applied", port.Fields{
		"page":           snapshot.Cursor.PageNumber,
		"items":          len(snapshot.Items),
		"total_elements": snapshot.Cursor.TotalElements,
	})
	c.notify(ctx, port.ListingEvent{Type: port.EventSnapshot, Snapshot: cloneSnapshot(&snapshot)})
	return nil
}

func (c *ListingController) loadStatistics(ctx context.Context, scope domain.ListingScope) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ListingController",
		"session_id":  c.sessionID,
		"landlord_id": scope.LandlordID,
	})

	report, err := c.landlords.GetLandlordStatistics(ctx, scope.LandlordID)
	if err != nil {
		logger.Warn("Failed to load landlord statistics", port.Fields{"error": err.Error()})
		return
	}
	stats := report.Normalize()

	c.mu.Lock()
	if c.scope != scope {
		// Область успели сменить, статистика уже не нужна
		c.mu.Unlock()
		return
	}
	c.statistics = &stats
	c.mu.Unlock()

	c.notify(ctx, port.ListingEvent{Type: port.EventStatistics, Statistics: &stats})
}

// Mutate выполняет запись и после успеха ровно один раз перезапрашивает список.
// В области арендодателя вместе со списком перезагружается его статистика.
func (c *ListingController) Mutate(ctx context.Context, intent domain.MutationIntent) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "ListingController",
		"session_id": c.sessionID,
		"mutation":   intent.String(),
	})

	c.mu.Lock()
	scope := c.scope
	c.mu.Unlock()

	event, err := c.dispatch(ctx, scope, intent)
	if err != nil {
		failure := domain.DescribeError("mutate:"+string(intent.Kind), err)
		c.mu.Lock()
		c.failure = failure
		c.mu.Unlock()

		logger.Error("Mutation failed", err, nil)
		c.notify(ctx, port.ListingEvent{Type: port.EventFailure, Failure: failure})
		return err
	}

	logger.Info("Mutation applied, refreshing listing", nil)

	if c.events != nil {
		event.SessionID = c.sessionID
		if err := c.events.PublishMutation(ctx, *event); err != nil {
			logger.Warn("Failed to publish mutation event", port.Fields{"error": err.Error()})
		}
	}

	if !scope.IsLandlord() {
		return c.Refresh(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.Refresh(gctx)
	})
	g.Go(func() error {
		c.loadStatistics(ctx, scope)
		return nil
	})
	return g.Wait()
}

// SetAvailability - сокращение для Mutate(SetAvailabilityIntent).
func (c *ListingController) SetAvailability(ctx context.Context, id int64, current domain.Availability) error {
	return c.Mutate(ctx, domain.SetAvailabilityIntent(id, current))
}

// dispatch проверяет намерение и отправляет его в каталог.
func (c *ListingController) dispatch(ctx context.Context, scope domain.ListingScope, intent domain.MutationIntent) (*domain.MutationEvent, error) {
	switch intent.Kind {
	case domain.MutationAdd, domain.MutationEdit:
		if intent.Draft == nil {
			return nil, fmt.Errorf("%w: %s requires a property draft", domain.ErrValidation, intent.Kind)
		}
		draft := *intent.Draft
		if intent.Kind == domain.MutationEdit {
			if intent.PropertyID <= 0 {
				return nil, fmt.Errorf("%w: edit requires a property id", domain.ErrValidation)
			}
			draft.ID = intent.PropertyID
		}
		if draft.LandlordID == 0 {
			if !scope.IsLandlord() {
				return nil, fmt.Errorf("%w: property must be bound to a landlord", domain.ErrValidation)
			}
			draft.LandlordID = scope.LandlordID
		}

		var saved *domain.PropertySummary
		var err error
		if intent.Kind == domain.MutationAdd {
			saved, err = c.catalog.AddProperty(ctx, draft)
		} else {
			saved, err = c.catalog.UpdateProperty(ctx, draft)
		}
		if err != nil {
			return nil, err
		}

		event := &domain.MutationEvent{Kind: intent.Kind, PropertyID: draft.ID, LandlordID: draft.LandlordID}
		if saved != nil && saved.ID != 0 {
			event.PropertyID = saved.ID
		}
		return event, nil

	case domain.MutationDelete:
		if intent.PropertyID <= 0 {
			return nil, fmt.Errorf("%w: delete requires a property id", domain.ErrValidation)
		}
		if err := c.catalog.DeleteProperty(ctx, intent.PropertyID); err != nil {
			return nil, err
		}
		return &domain.MutationEvent{Kind: intent.Kind, PropertyID: intent.PropertyID, LandlordID: scope.LandlordID}, nil

	case domain.MutationSetAvailability:
		if intent.PropertyID <= 0 {
			return nil, fmt.Errorf("%w: availability change requires a property id", domain.ErrValidation)
		}
		if intent.Availability != domain.Available && intent.Availability != domain.Unavailable {
			return nil, fmt.Errorf("%w: availability must be 0 or 1, got %d", domain.ErrValidation, intent.Availability)
		}
		saved, err := c.catalog.ChangeAvailability(ctx, intent.PropertyID, intent.Availability)
		if err != nil {
			return nil, err
		}
		next := int(intent.Availability.Toggled())
		if saved != nil {
			next = int(saved.Availability)
		}
		return &domain.MutationEvent{Kind: intent.Kind, PropertyID: intent.PropertyID, LandlordID: scope.LandlordID, Availability: &next}, nil
	}

	return nil, fmt.Errorf("%w: unknown mutation kind %q", domain.ErrValidation, intent.Kind)
}

// PresentForm готовит состояние модального окна. Для редактирования объект
// загружается из каталога, добавление сразу привязано к арендодателю области.
func (c *ListingController) PresentForm(ctx context.Context, mode domain.FormMode, propertyID int64) (*domain.FormState, error) {
	c.mu.Lock()
	scope := c.scope
	c.mu.Unlock()

	switch mode {
	case domain.FormAdd:
		draft := &domain.PropertyDraft{Availability: domain.Available}
		if scope.IsLandlord() {
			draft.LandlordID = scope.LandlordID
		}
		return &domain.FormState{Mode: mode, Draft: draft}, nil

	case domain.FormEdit:
		if propertyID <= 0 {
			return nil, fmt.Errorf("%w: edit form requires a property id", domain.ErrValidation)
		}
		draft, err := c.catalog.GetProperty(ctx, propertyID)
		if err != nil {
			failure := domain.DescribeError("present_form", err)
			c.mu.Lock()
			c.failure = failure
			c.mu.Unlock()
			c.notify(ctx, port.ListingEvent{Type: port.EventFailure, Failure: failure})
			return nil, err
		}
		if draft.LandlordID == 0 && scope.IsLandlord() {
			draft.LandlordID = scope.LandlordID
		}
		return &domain.FormState{Mode: mode, PropertyID: propertyID, Draft: draft}, nil

	case domain.FormDelete, domain.FormMakeAvailable, domain.FormMakeUnavailable:
		if propertyID <= 0 {
			return nil, fmt.Errorf("%w: %s form requires a property id", domain.ErrValidation, mode)
		}
		return &domain.FormState{Mode: mode, PropertyID: propertyID}, nil
	}

	return nil, fmt.Errorf("%w: unknown form mode %q", domain.ErrValidation, mode)
}

// Snapshot возвращает копию текущего снимка.
func (c *ListingController) Snapshot() domain.ListingSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *cloneSnapshot(&c.snapshot)
}

func (c *ListingController) Failure() *domain.ErrorDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure == nil {
		return nil
	}
	f := *c.failure
	return &f
}

func (c *ListingController) State() domain.ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ListingController) Statistics() *domain.LandlordStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statistics == nil {
		return nil
	}
	s := *c.statistics
	return &s
}

func (c *ListingController) Scope() domain.ListingScope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope
}

func (c *ListingController) Search() *domain.SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySearch(c.search)
}

// Cursor возвращает курсор, с которым будет выполнен следующий запрос.
func (c *ListingController) Cursor() domain.PaginationCursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination.Cursor()
}

func (c *ListingController) notify(ctx context.Context, event port.ListingEvent) {
	if c.notifier == nil {
		return
	}
	event.SessionID = c.sessionID
	c.notifier.Notify(ctx, event)
}

func cloneSnapshot(s *domain.ListingSnapshot) *domain.ListingSnapshot {
	out := *s
	out.Items = make([]domain.PropertySummary, len(s.Items))
	copy(out.Items, s.Items)
	out.Search = copySearch(s.Search)
	return &out
}
