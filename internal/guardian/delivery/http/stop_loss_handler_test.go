package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStopLossService struct {
	config     *entity.StopLossConfig
	configs    []entity.StopLossConfig
	err        error
	lastUserID uint
	lastTicker string
	lastReq    *dto.UpsertStopLossRequest
}

func (s *stubStopLossService) SetStopLoss(ctx context.Context, userID uint, ticker string, req *dto.UpsertStopLossRequest) (*entity.StopLossConfig, error) {
	s.lastUserID = userID
	s.lastTicker = ticker
	s.lastReq = req
	return s.config, s.err
}

func (s *stubStopLossService) RemoveStopLoss(ctx context.Context, userID uint, ticker string) error {
	s.lastUserID = userID
	s.lastTicker = ticker
	return s.err
}

func (s *stubStopLossService) GetStopLossConfigs(ctx context.Context, userID uint) ([]entity.StopLossConfig, error) {
	s.lastUserID = userID
	return s.configs, s.err
}

func newTickerRequest(t *testing.T, method, body, userID, ticker string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	e := echo.New()
	req := httptest.NewRequest(method, "/", reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "ticker")
	c.SetParamValues(userID, ticker)
	return c, rec
}

func TestSetStopLoss_OK(t *testing.T) {
	price := 185.0
	svc := &stubStopLossService{config: &entity.StopLossConfig{ID: 1, UserID: 7, Ticker: "AAPL", StopLossPrice: &price, IsActive: true}}
	h := NewStopLossHandler(svc, logger.NewNop())

	c, rec := newTickerRequest(t, http.MethodPut, `{"stop_loss_price":185}`, "7", "AAPL")
	require.NoError(t, h.SetStopLoss(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), svc.lastUserID)
	assert.Equal(t, "AAPL", svc.lastTicker)
	require.NotNil(t, svc.lastReq)
	require.NotNil(t, svc.lastReq.StopLossPrice)
	assert.Equal(t, 185.0, *svc.lastReq.StopLossPrice)
	assert.Nil(t, svc.lastReq.StopLossPercent)

	var body entity.StopLossConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body.Ticker)
	require.NotNil(t, body.StopLossPrice)
	assert.Equal(t, 185.0, *body.StopLossPrice)
}

func TestSetStopLoss_InvalidUserID(t *testing.T) {
	svc := &stubStopLossService{}
	h := NewStopLossHandler(svc, logger.NewNop())

	c, rec := newTickerRequest(t, http.MethodPut, `{"stop_loss_price":185}`, "abc", "AAPL")
	require.NoError(t, h.SetStopLoss(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid user ID", decodeError(t, rec).Error)
	assert.Nil(t, svc.lastReq)
}

func TestSetStopLoss_MalformedBody(t *testing.T) {
	svc := &stubStopLossService{}
	h := NewStopLossHandler(svc, logger.NewNop())

	c, rec := newTickerRequest(t, http.MethodPut, `{"stop_loss_price":"high"}`, "7", "AAPL")
	require.NoError(t, h.SetStopLoss(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request payload", decodeError(t, rec).Error)
	assert.Nil(t, svc.lastReq)
}

func TestSetStopLoss_ValidationError(t *testing.T) {
	svc := &stubStopLossService{err: entity.NewValidationError("stop_loss", "exactly one of stop_loss_price and stop_loss_percent must be set")}
	h := NewStopLossHandler(svc, logger.NewNop())

	c, rec := newTickerRequest(t, http.MethodPut, `{}`, "7", "AAPL")
	require.NoError(t, h.SetStopLoss(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "exactly one of")
}

func TestRemoveStopLoss_NoContent(t *testing.T) {
	svc := &stubStopLossService{}
	h := NewStopLossHandler(svc, logger.NewNop())

	c, rec := newTickerRequest(t, http.MethodDelete, "", "7", "AAPL")
	require.NoError(t, h.RemoveStopLoss(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, uint(7), svc.lastUserID)
	assert.Equal(t, "AAPL", svc.lastTicker)
}

func TestRemoveStopLoss_NotFound(t *testing.T) {
	svc := &stubStopLossService{err: entity.ErrConfigNotFound}
	h := NewStopLossHandler(svc, logger.NewNop())

	c, rec := newTickerRequest(t, http.MethodDelete, "", "7", "MSFT")
	require.NoError(t, h.RemoveStopLoss(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, entity.ErrConfigNotFound.Error(), decodeError(t, rec).Error)
}

func TestGetStopLossConfigs_OK(t *testing.T) {
	percent := 5.0
	svc := &stubStopLossService{configs: []entity.StopLossConfig{
		{ID: 1, UserID: 7, Ticker: "AAPL", StopLossPercent: &percent, IsActive: true},
		{ID: 2, UserID: 7, Ticker: "MSFT", StopLossPercent: &percent, IsActive: false},
	}}
	h := NewStopLossHandler(svc, logger.NewNop())

	c, rec := newUserRequest(t, "/", "7")
	require.NoError(t, h.GetStopLossConfigs(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), svc.lastUserID)

	var body []entity.StopLossConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "AAPL", body[0].Ticker)
	assert.False(t, body[1].IsActive)
}

func TestGetStopLossConfigs_InvalidUserID(t *testing.T) {
	h := NewStopLossHandler(&stubStopLossService{}, logger.NewNop())

	c, rec := newUserRequest(t, "/", "-3")
	require.NoError(t, h.GetStopLossConfigs(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid user ID", decodeError(t, rec).Error)
}
