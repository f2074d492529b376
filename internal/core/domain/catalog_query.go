package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// QueryMode - одна из четырех форм запроса к каталогу.
type QueryMode int

const (
	ModeAvailableListing QueryMode = iota
	ModeLandlordListing
	ModeAvailableSearch
	ModeLandlordSearch
)

func (m QueryMode) String() string {
	switch m {
	case ModeAvailableListing:
		return "available_listing"
	case ModeLandlordListing:
		return "landlord_listing"
	case ModeAvailableSearch:
		return "available_search"
	case ModeLandlordSearch:
		return "landlord_search"
	default:
		return "unknown"
	}
}

// Пути поисковых эндпоинтов относительно /api/properties/search.
// Завершающий слеш у первого пути совпадает с тем, что ожидает бэкенд.
const (
	pathAvailableListing = "/findByAvailabilityOrderByPropertyNameAsc/"
	pathLandlordListing  = "/findByLandlordIdOrderByPropertyNameAsc"
	pathAvailableSearch  = "/findByAvailabilityAndPropertyNameContainingIgnoreCaseOrderByPropertyNameAsc"
	pathLandlordSearch   = "/findByLandlordIdAndPropertyNameContainingIgnoreCaseOrderByPropertyNameAsc"
)

// QueryParam - параметр запроса. Порядок параметров значим.
type QueryParam struct {
	Name  string
	Value string
}

// CatalogRequest - канонический дескриптор запроса списка.
type CatalogRequest struct {
	Mode   QueryMode
	Path   string
	Params []QueryParam
}

// Param возвращает значение параметра по имени.
func (r CatalogRequest) Param(name string) (string, bool) {
	for _, p := range r.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Encode собирает строку запроса в фиксированном порядке параметров.
func (r CatalogRequest) Encode() string {
	parts := make([]string, 0, len(r.Params))
	for _, p := range r.Params {
		parts = append(parts, url.QueryEscape(p.Name)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// RelativeURL - путь с query-строкой.
func (r CatalogRequest) RelativeURL() string {
	return r.Path + "?" + r.Encode()
}

// BuildCatalogRequest выбирает форму запроса по области и поиску и переводит номер страницы в смещение от 0.
// Некорректные курсор или область - ошибка программиста, а не времени выполнения.
func BuildCatalogRequest(scope ListingScope, search *SearchState, cursor PaginationCursor) CatalogRequest {
	if cursor.PageNumber < 1 {
		panic(fmt.Sprintf("catalog query: page number must be >= 1, got %d", cursor.PageNumber))
	}
	if cursor.PageSize <= 0 {
		panic(fmt.Sprintf("catalog query: page size must be positive, got %d", cursor.PageSize))
	}

	var req CatalogRequest
	switch scope.Kind {
	case ScopeGlobal:
		if search == nil {
			req.Mode, req.Path = ModeAvailableListing, pathAvailableListing
			req.Params = append(req.Params, QueryParam{"availability", strconv.Itoa(int(Available))})
		} else {
			req.Mode, req.Path = ModeAvailableSearch, pathAvailableSearch
			req.Params = append(req.Params,
				QueryParam{"availability", strconv.Itoa(int(Available))},
				QueryParam{"name", search.Keyword},
			)
		}
	case ScopeLandlord:
		id := strconv.FormatInt(scope.LandlordID, 10)
		if search == nil {
			req.Mode, req.Path = ModeLandlordListing, pathLandlordListing
			req.Params = append(req.Params, QueryParam{"id", id})
		} else {
			// Поиск арендодателя не ограничен доступностью: так устроен соответствующий эндпоинт.
			req.Mode, req.Path = ModeLandlordSearch, pathLandlordSearch
			req.Params = append(req.Params,
				QueryParam{"id", id},
				QueryParam{"name", search.Keyword},
			)
		}
	default:
		panic(fmt.Sprintf("catalog query: unknown scope kind %d", scope.Kind))
	}

	req.Params = append(req.Params,
		QueryParam{"page", strconv.Itoa(cursor.PageNumber - 1)},
		QueryParam{"size", strconv.Itoa(cursor.PageSize)},
	)
	return req
}
