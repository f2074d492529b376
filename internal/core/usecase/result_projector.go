package usecase

import "rental-listing-client/internal/core/domain"

// ProjectPage превращает страницу каталога в снимок списка.
// Элементы копируются, номер страницы переводится из отсчета от 0 в отсчет от 1.
// Если сервер не сообщил размер страницы, в курсор попадает запрошенный размер.
func ProjectPage(page domain.PropertyPage, requestedSize int, scope domain.ListingScope, search *domain.SearchState, seq uint64) domain.ListingSnapshot {
	items := make([]domain.PropertySummary, len(page.Items))
	copy(items, page.Items)

	size := page.Size
	if size <= 0 {
		size = requestedSize
	}

	return domain.ListingSnapshot{
		Items: items,
		Cursor: domain.PaginationCursor{
			PageNumber:    page.Number + 1,
			PageSize:      size,
			TotalElements: page.TotalElements,
			TotalPages:    page.TotalPages,
		},
		Scope:  scope,
		Search: copySearch(search),
		Seq:    seq,
	}
}

func copySearch(search *domain.SearchState) *domain.SearchState {
	if search == nil {
		return nil
	}
	s := *search
	return &s
}
