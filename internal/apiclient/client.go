package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/metrics"
)

const refreshPath = "auth/token/refresh/"

// TokenStore описывает контракт долговременного хранилища токенов сессии.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string) error
	ClearSession() error
}

// Client — единственная точка выхода портала в REST API клуба.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	tokens           TokenStore
	limiter          *rate.Limiter
	log              *slog.Logger
	metrics          *metrics.Metrics
	onSessionExpired func()
}

// Options — настройки клиента.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// New создаёт клиент. Базовый URL нормализуется один раз здесь, а не на
// каждый запрос.
func New(opts Options, tokens TokenStore, log *slog.Logger, m *metrics.Metrics) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 20
	}
	return &Client{
		baseURL:    NormalizeBaseURL(opts.BaseURL),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		log:        log,
		metrics:    m,
	}
}

// SetSessionExpiredHandler регистрирует обработчик принудительного выхода.
// Вызывается, когда refresh невозможен или отклонён сервером.
func (c *Client) SetSessionExpiredHandler(fn func()) {
	c.onSessionExpired = fn
}

// NormalizeBaseURL обрезает хвостовые слэши и ровно один раз дописывает
// сегмент /api, если его ещё нет.
func NormalizeBaseURL(raw string) string {
	trimmed := strings.TrimRight(raw, "/")
	if strings.HasSuffix(trimmed, "/api") {
		return trimmed
	}
	return trimmed + "/api"
}

// isAuthEntryPoint сообщает, относится ли путь к точкам входа аутентификации,
// для которых 401 не лечится refresh-ом.
func isAuthEntryPoint(path string) bool {
	return strings.Contains(path, "auth/login") ||
		strings.Contains(path, "auth/register") ||
		strings.Contains(path, "auth/password")
}

// Get выполняет GET-запрос.
func (c *Client) Get(ctx context.Context, path string) Result {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post выполняет POST-запрос с JSON-телом.
func (c *Client) Post(ctx context.Context, path string, body any) Result {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Patch выполняет PATCH-запрос с JSON-телом.
func (c *Client) Patch(ctx context.Context, path string, body any) Result {
	return c.Do(ctx, http.MethodPatch, path, body)
}

// Delete выполняет DELETE-запрос.
func (c *Client) Delete(ctx context.Context, path string) Result {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do выполняет запрос к API: подставляет bearer-токен, при 401 вне точек
// входа пытается ровно один раз обновить access-токен и повторить запрос,
// любой отказ приводит к нормализованной ошибке.
func (c *Client) Do(ctx context.Context, method, path string, body any) Result {
	const op = "apiclient.Do"
	log := c.log.With(
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		c.count(method, "setup_error")
		return failure(StatusSetupError, err.Error())
	}

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			log.Error("failed to encode request body", sl.Err(err))
			c.count(method, "setup_error")
			return failure(StatusSetupError, err.Error())
		}
	}

	status, respBody, err := c.send(ctx, method, path, bodyBytes, c.tokens.AccessToken())
	if err != nil {
		log.Error("request failed", sl.Err(err))
		c.count(method, "network_error")
		return failure(StatusNetworkError, MsgNetworkError)
	}

	// Один повтор после тихого refresh-а; точки входа auth не лечатся.
	if status == http.StatusUnauthorized && !isAuthEntryPoint(path) {
		refreshed, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			log.Warn("token refresh failed, session terminated", sl.Err(refreshErr))
			c.expireSession()
			if apiErr, ok := refreshErr.(*APIError); ok {
				return Result{Error: apiErr}
			}
			return failure(StatusNetworkError, MsgNetworkError)
		}
		log.Info("access token refreshed, retrying request")
		status, respBody, err = c.send(ctx, method, path, bodyBytes, refreshed)
		if err != nil {
			c.count(method, "network_error")
			return failure(StatusNetworkError, MsgNetworkError)
		}
	}

	if status >= http.StatusBadRequest {
		c.count(method, "http_error")
		return Result{Error: normalize(status, respBody)}
	}

	c.count(method, "ok")
	return Result{Success: true, Data: respBody}
}

// send выполняет один HTTP-вызов и возвращает код и тело ответа.
func (c *Client) send(ctx context.Context, method, path string, body []byte, bearer string) (int, []byte, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// refreshAccessToken обменивает refresh-токен на новый access-токен и
// сохраняет его. Ошибка означает конец сессии.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	const op = "apiclient.refreshAccessToken"

	refresh := c.tokens.RefreshToken()
	if refresh == "" {
		c.countRefresh("failed")
		return "", &APIError{Status: http.StatusUnauthorized, Message: MsgServerError}
	}

	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		c.countRefresh("failed")
		return "", &APIError{Status: StatusSetupError, Message: err.Error()}
	}
	status, body, err := c.send(ctx, http.MethodPost, refreshPath, payload, "")
	if err != nil {
		c.countRefresh("failed")
		return "", err
	}
	if status >= http.StatusBadRequest {
		c.countRefresh("failed")
		return "", normalize(status, body)
	}

	var data struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(body, &data); err != nil || data.Access == "" {
		c.countRefresh("failed")
		return "", &APIError{Status: StatusSetupError, Message: MsgServerError}
	}
	if err := c.tokens.SetAccessToken(data.Access); err != nil {
		c.countRefresh("failed")
		return "", err
	}
	c.countRefresh("ok")
	c.log.Info("silent token refresh succeeded",
		slog.String("op", op), sl.Secret("access_token", data.Access))
	return data.Access, nil
}

// expireSession чистит токены и уведомляет приложение о конце сессии.
func (c *Client) expireSession() {
	if err := c.tokens.ClearSession(); err != nil {
		c.log.Error("failed to clear session storage", sl.Err(err))
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// normalize приводит HTTP-ошибку к APIError: message берётся из message или
// detail тела ответа, иначе подставляется общий текст.
func normalize(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: MsgServerError}
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil || data == nil {
		return apiErr
	}
	apiErr.Data = data
	if msg, ok := data["message"].(string); ok && msg != "" {
		apiErr.Message = msg
	} else if detail, ok := data["detail"].(string); ok && detail != "" {
		apiErr.Message = detail
	}
	if errs, ok := data["errors"].(map[string]any); ok {
		apiErr.Errors = errs
	}
	return apiErr
}

func failure(status int, message string) Result {
	return Result{Error: &APIError{Status: status, Message: message}}
}

func (c *Client) count(method, outcome string) {
	if c.metrics != nil {
		c.metrics.APIRequests.WithLabelValues(method, outcome).Inc()
	}
}

func (c *Client) countRefresh(result string) {
	if c.metrics != nil {
		c.metrics.TokenRefresh.WithLabelValues(result).Inc()
	}
}
