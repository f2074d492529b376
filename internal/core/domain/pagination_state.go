package domain

import "fmt"

// DefaultPageSize - размер страницы по умолчанию.
const DefaultPageSize = 6

// DirectiveKind - решение автомата пагинации.
type DirectiveKind int

const (
	KeepPage DirectiveKind = iota
	ResetToFirstPage
)

func (k DirectiveKind) String() string {
	if k == ResetToFirstPage {
		return "reset"
	}
	return "keep"
}

// CursorDirective - решение и курсор, с которым нужно выполнить следующий запрос.
type CursorDirective struct {
	Kind   DirectiveKind
	Cursor PaginationCursor
}

// PaginationState хранит курсор и параметры предыдущего запроса,
// чтобы понять, когда курсор нужно сбросить на первую страницу.
// Не потокобезопасен: владелец (контроллер) сериализует вызовы.
type PaginationState struct {
	cursor PaginationCursor

	previousKeyword *string
	previousScope   ListingScope
}

func NewPaginationState(pageSize int) *PaginationState {
	if pageSize <= 0 {
		panic(fmt.Sprintf("pagination: page size must be positive, got %d", pageSize))
	}
	return &PaginationState{
		cursor:        PaginationCursor{PageNumber: 1, PageSize: pageSize},
		previousScope: GlobalScope(),
	}
}

// Cursor возвращает текущий курсор.
func (p *PaginationState) Cursor() PaginationCursor {
	return p.cursor
}

// Observe сравнивает новые параметры с предыдущими и запоминает их.
// Смена ключевого слова (включая появление и пропадание поиска) или области сбрасывает страницу.
func (p *PaginationState) Observe(scope ListingScope, search *SearchState) CursorDirective {
	var keyword *string
	if search != nil {
		k := search.Keyword
		keyword = &k
	}

	reset := !sameKeyword(p.previousKeyword, keyword) || p.previousScope != scope

	p.previousKeyword = keyword
	p.previousScope = scope

	if reset {
		return p.resetToFirstPage()
	}
	return CursorDirective{Kind: KeepPage, Cursor: p.cursor}
}

// SetPageSize меняет размер страницы и всегда возвращает на первую страницу.
func (p *PaginationState) SetPageSize(size int) CursorDirective {
	if size <= 0 {
		panic(fmt.Sprintf("pagination: page size must be positive, got %d", size))
	}
	p.cursor.PageSize = size
	return p.resetToFirstPage()
}

// GoToPage переходит на страницу с номером page (от 1).
func (p *PaginationState) GoToPage(page int) CursorDirective {
	if page < 1 {
		panic(fmt.Sprintf("pagination: page number must be >= 1, got %d", page))
	}
	p.cursor.PageNumber = page
	return CursorDirective{Kind: KeepPage, Cursor: p.cursor}
}

// Commit принимает курсор из примененного снимка (номер, размер и total от сервера).
func (p *PaginationState) Commit(cursor PaginationCursor) {
	if cursor.PageNumber < 1 {
		cursor.PageNumber = 1
	}
	if cursor.PageSize <= 0 {
		cursor.PageSize = p.cursor.PageSize
	}
	p.cursor = cursor
}

func (p *PaginationState) resetToFirstPage() CursorDirective {
	p.cursor.PageNumber = 1
	return CursorDirective{Kind: ResetToFirstPage, Cursor: p.cursor}
}

func sameKeyword(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
