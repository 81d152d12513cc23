package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/logger"
	"doc-authorizer/internal/pkg/metrics"
	"doc-authorizer/internal/service/credential"
)

// Dispatcher reports final decisions back to the service that owns the
// document. It only reports success or failure; it never returns an error.
type Dispatcher interface {
	Notify(ctx context.Context, dt *domain.DocumentType, payload domain.CallbackPayload) bool
}

type dispatcher struct {
	creds   credential.Service
	client  *http.Client
	timeout time.Duration
	log     *zap.Logger
}

func NewDispatcher(creds credential.Service, client *http.Client, timeout time.Duration, log *zap.Logger) Dispatcher {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &dispatcher{
		creds:   creds,
		client:  client,
		timeout: timeout,
		log:     logger.OrNop(log).Named("callback"),
	}
}

// TargetURL substitutes the document ID into the type's callback template.
func TargetURL(dt *domain.DocumentType, documentID int64) string {
	endpoint := strings.ReplaceAll(dt.CallbackEndpoint, "{id}", strconv.FormatInt(documentID, 10))
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return strings.TrimRight(dt.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

func (d *dispatcher) Notify(ctx context.Context, dt *domain.DocumentType, payload domain.CallbackPayload) bool {
	ok := d.notify(ctx, dt, payload)
	metrics.Callbacks.WithLabelValues(dt.Code, metrics.Outcome(ok)).Inc()
	return ok
}

func (d *dispatcher) notify(ctx context.Context, dt *domain.DocumentType, payload domain.CallbackPayload) bool {
	url := TargetURL(dt, payload.DocumentID)
	log := d.log.With(zap.String("url", url), zap.Int64("document_id", payload.DocumentID), zap.String("status", string(payload.Status)))

	token, err := d.creds.Issue()
	if err != nil {
		log.Error("failed to issue service credential", zap.Error(err))
		return false
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to encode callback payload", zap.Error(err))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to build callback request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := d.client.Do(req)
	if err != nil {
		log.Error("callback request failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error("callback rejected by origin service",
			zap.Int("status_code", resp.StatusCode), zap.String("response", string(respBody)))
		return false
	}

	log.Info("callback delivered")
	return true
}
