package catalog_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/contracts"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"
)

const searchPrefix = "/api/properties/search"

// Client ходит в REST API каталога. Чтения идут через /api (Spring Data REST),
// записи и агрегаты - через пути без /api.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *Client) doRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// call выполняет запрос и возвращает тело успешного ответа.
// Ошибки сети и статусы 5xx - ErrTransport, 404 - ErrNotFound, 400 и 422 - ErrValidation.
func (c *Client) call(ctx context.Context, logger port.LoggerPort, method, url string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	logger.Debug("Sending request to catalog API", port.Fields{"url": url, "http_method": method})

	resp, err := c.doRequest(ctx, method, url, body)
	if err != nil {
		logger.Error("Failed to perform request to catalog API", err, nil)
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read response from catalog API", err, nil)
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		sentinel := domain.ErrTransport
		switch resp.StatusCode {
		case http.StatusNotFound:
			sentinel = domain.ErrNotFound
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			sentinel = domain.ErrValidation
		}
		err := fmt.Errorf("%w: catalog API returned status %d: %s", sentinel, resp.StatusCode, strings.TrimSpace(string(respBody)))
		logger.Error("Received error response from catalog API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	return respBody, nil
}

func (c *Client) decode(logger port.LoggerPort, raw []byte, out interface{}) error {
	if err := json.Unmarshal(raw, out); err != nil {
		logger.Error("Failed to decode response from catalog API", err, nil)
		return fmt.Errorf("%w: malformed response: %v", domain.ErrTransport, err)
	}
	return nil
}

func (c *Client) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CatalogApiClient",
		"method":    method,
	})
}

// FetchPage выполняет один из поисковых запросов и проверяет конверт по схеме.
func (c *Client) FetchPage(ctx context.Context, req domain.CatalogRequest) (*domain.PropertyPage, error) {
	clientLogger := c.logger(ctx, "FetchPage").WithFields(port.Fields{"mode": req.Mode.String()})

	url := c.baseURL + searchPrefix + req.RelativeURL()
	raw, err := c.call(ctx, clientLogger, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	if err := contracts.ValidatePayload(contracts.PropertyPageV1, raw); err != nil {
		clientLogger.Error("Catalog page does not match contract", err, nil)
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	var envelope PropertyPageResponse
	if err := c.decode(clientLogger, raw, &envelope); err != nil {
		return nil, err
	}

	page := &domain.PropertyPage{
		Items:         []domain.PropertySummary{},
		Number:        envelope.Page.Number,
		Size:          envelope.Page.Size,
		TotalElements: envelope.Page.TotalElements,
		TotalPages:    envelope.Page.TotalPages,
	}
	if envelope.Embedded != nil {
		for _, p := range envelope.Embedded.Properties {
			page.Items = append(page.Items, p.toSummary())
		}
	}

	clientLogger.Info("Successfully received catalog page", port.Fields{
		"items_count":    len(page.Items),
		"page_number":    page.Number,
		"total_elements": page.TotalElements,
	})
	return page, nil
}

func (c *Client) AddProperty(ctx context.Context, draft domain.PropertyDraft) (*domain.PropertySummary, error) {
	return c.writeProperty(ctx, "AddProperty", http.MethodPost, c.baseURL+"/properties/add", draft)
}

func (c *Client) UpdateProperty(ctx context.Context, draft domain.PropertyDraft) (*domain.PropertySummary, error) {
	return c.writeProperty(ctx, "UpdateProperty", http.MethodPut, c.baseURL+"/properties/update", draft)
}

func (c *Client) writeProperty(ctx context.Context, method, httpMethod, url string, draft domain.PropertyDraft) (*domain.PropertySummary, error) {
	clientLogger := c.logger(ctx, method)

	payload := toPropertyRequest(draft)
	if err := contracts.ValidateValue(contracts.PropertyDraftV1, payload); err != nil {
		clientLogger.Warn("Property draft rejected before dispatch", port.Fields{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	raw, err := c.call(ctx, clientLogger, httpMethod, url, payload)
	if err != nil {
		return nil, err
	}

	saved := payload.summary()
	if len(bytes.TrimSpace(raw)) > 0 {
		var resp PropertyResponse
		if err := c.decode(clientLogger, raw, &resp); err != nil {
			return nil, err
		}
		saved = resp.toSummary()
	}

	clientLogger.Info("Property saved", port.Fields{"property_id": saved.ID})
	return &saved, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id int64) error {
	clientLogger := c.logger(ctx, "DeleteProperty").WithFields(port.Fields{"property_id": id})

	url := fmt.Sprintf("%s/properties/delete/%d", c.baseURL, id)
	if _, err := c.call(ctx, clientLogger, http.MethodDelete, url, nil); err != nil {
		return err
	}

	clientLogger.Info("Property deleted", nil)
	return nil
}

// ChangeAvailability отправляет текущее значение доступности. Бэкенд переключает его сам.
func (c *Client) ChangeAvailability(ctx context.Context, id int64, current domain.Availability) (*domain.PropertySummary, error) {
	clientLogger := c.logger(ctx, "ChangeAvailability").WithFields(port.Fields{"property_id": id})

	payload := AvailabilityRequest{ID: id, Availability: int(current)}
	if err := contracts.ValidateValue(contracts.AvailabilityChangeV1, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	raw, err := c.call(ctx, clientLogger, http.MethodPut, c.baseURL+"/properties/changeAvailability", payload)
	if err != nil {
		return nil, err
	}

	result := domain.PropertySummary{ID: id, Availability: current.Toggled()}
	if len(bytes.TrimSpace(raw)) > 0 {
		var resp PropertyResponse
		if err := c.decode(clientLogger, raw, &resp); err != nil {
			return nil, err
		}
		result = resp.toSummary()
	}

	clientLogger.Info("Property availability changed", port.Fields{"availability": int(result.Availability)})
	return &result, nil
}

// GetProperty загружает объект для формы редактирования.
func (c *Client) GetProperty(ctx context.Context, id int64) (*domain.PropertyDraft, error) {
	clientLogger := c.logger(ctx, "GetProperty").WithFields(port.Fields{"property_id": id})

	raw, err := c.call(ctx, clientLogger, http.MethodGet, fmt.Sprintf("%s/api/properties/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	var resp PropertyResponse
	if err := c.decode(clientLogger, raw, &resp); err != nil {
		return nil, err
	}

	draft := resp.toDraft()
	// Spring Data REST не кладет id в тело
	if draft.ID == 0 {
		draft.ID = id
	}
	return &draft, nil
}

func (c *Client) GetPropertyDetails(ctx context.Context, id int64) (*domain.PropertyDetails, error) {
	clientLogger := c.logger(ctx, "GetPropertyDetails").WithFields(port.Fields{"property_id": id})

	raw, err := c.call(ctx, clientLogger, http.MethodGet, fmt.Sprintf("%s/properties/details/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	var resp PropertyDetailsResponse
	if err := c.decode(clientLogger, raw, &resp); err != nil {
		return nil, err
	}

	details := resp.toDomain()
	if details.ID == 0 {
		details.ID = id
	}
	return &details, nil
}

func (c *Client) GetPropertyLandlord(ctx context.Context, id int64) (*domain.Landlord, error) {
	clientLogger := c.logger(ctx, "GetPropertyLandlord").WithFields(port.Fields{"property_id": id})

	raw, err := c.call(ctx, clientLogger, http.MethodGet, fmt.Sprintf("%s/api/properties/%d/landlord", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	var resp LandlordResponse
	if err := c.decode(clientLogger, raw, &resp); err != nil {
		return nil, err
	}
	landlord := resp.toDomain()
	return &landlord, nil
}

func (c *Client) ListLandlords(ctx context.Context) ([]domain.Landlord, error) {
	clientLogger := c.logger(ctx, "ListLandlords")

	raw, err := c.call(ctx, clientLogger, http.MethodGet, c.baseURL+"/api/landlords", nil)
	if err != nil {
		return nil, err
	}

	var resp LandlordListResponse
	if err := c.decode(clientLogger, raw, &resp); err != nil {
		return nil, err
	}

	result := []domain.Landlord{}
	if resp.Embedded != nil {
		for _, l := range resp.Embedded.Landlords {
			result = append(result, l.toDomain())
		}
	}

	clientLogger.Info("Successfully received landlords", port.Fields{"landlords_count": len(result)})
	return result, nil
}

func (c *Client) GetLandlord(ctx context.Context, id int64) (*domain.Landlord, error) {
	clientLogger := c.logger(ctx, "GetLandlord").WithFields(port.Fields{"landlord_id": id})

	raw, err := c.call(ctx, clientLogger, http.MethodGet, fmt.Sprintf("%s/api/landlords/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	var resp LandlordResponse
	if err := c.decode(clientLogger, raw, &resp); err != nil {
		return nil, err
	}
	landlord := resp.toDomain()
	if landlord.ID == 0 {
		landlord.ID = id
	}
	return &landlord, nil
}

// GetLandlordStatistics возвращает статистику как есть, без подстановки нуля.
func (c *Client) GetLandlordStatistics(ctx context.Context, id int64) (*domain.LandlordStatisticsReport, error) {
	clientLogger := c.logger(ctx, "GetLandlordStatistics").WithFields(port.Fields{"landlord_id": id})

	raw, err := c.call(ctx, clientLogger, http.MethodGet, fmt.Sprintf("%s/landlords/%d/statistics", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	var resp LandlordStatisticsResponse
	if err := c.decode(clientLogger, raw, &resp); err != nil {
		return nil, err
	}

	report := &domain.LandlordStatisticsReport{LandlordID: id, MonthlyIncome: resp.MontlyIncome}
	if report.MonthlyIncome == nil {
		report.MonthlyIncome = resp.MonthlyIncome
	}
	return report, nil
}

func (p PropertyRequest) summary() domain.PropertySummary {
	return domain.PropertySummary{
		ID:              p.ID,
		ImageURL:        p.ImageURL,
		PropertyName:    p.PropertyName,
		PropertyAddress: p.PropertyAddress,
		PropertyType:    p.PropertyType,
		AreaInFeet:      p.AreaInFeet,
		BedCapacity:     p.BedCapacity,
		Price:           p.Price,
		Availability:    domain.Availability(p.Availability),
		Description:     p.Description,
	}
}
