package domain

import "fmt"

// ScopeKind - вид области просмотра списка.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeLandlord
)

// ListingScope определяет, чьи объекты показываются: все доступные или объекты одного арендодателя.
type ListingScope struct {
	Kind       ScopeKind
	LandlordID int64
}

// GlobalScope - общий каталог.
func GlobalScope() ListingScope {
	return ListingScope{Kind: ScopeGlobal}
}

// LandlordScope - каталог конкретного арендодателя.
func LandlordScope(landlordID int64) ListingScope {
	return ListingScope{Kind: ScopeLandlord, LandlordID: landlordID}
}

func (s ListingScope) IsLandlord() bool {
	return s.Kind == ScopeLandlord
}

func (s ListingScope) String() string {
	if s.IsLandlord() {
		return fmt.Sprintf("landlord:%d", s.LandlordID)
	}
	return "global"
}

// SearchState - активный поиск по ключевому слову. nil означает режим обычного списка.
type SearchState struct {
	Keyword string
}

// KeywordOrEmpty возвращает ключевое слово или пустую строку, если поиска нет.
func (s *SearchState) KeywordOrEmpty() string {
	if s == nil {
		return ""
	}
	return s.Keyword
}

// PaginationCursor - положение в постраничной выдаче. PageNumber начинается с 1.
type PaginationCursor struct {
	PageNumber    int
	PageSize      int
	TotalElements int64
	TotalPages    int
}

// ListingSnapshot - согласованный набор "элементы + курсор", заменяется целиком.
type ListingSnapshot struct {
	Items  []PropertySummary
	Cursor PaginationCursor

	Scope  ListingScope
	Search *SearchState
	// Seq - номер запроса, результатом которого является снимок
	Seq uint64
}

// ControllerState - состояние контроллера списка.
type ControllerState int

const (
	StateIdle ControllerState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s ControllerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PropertyPage - страница объектов в том виде, в котором ее вернул каталог (page.number от 0).
type PropertyPage struct {
	Items         []PropertySummary
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
}
