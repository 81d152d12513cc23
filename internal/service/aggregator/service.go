package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/logger"
	"doc-authorizer/internal/pkg/metrics"
	"doc-authorizer/internal/service/credential"
)

const maxBodyBytes = 10 << 20

// Service assembles the composite view of a document for a reviewer.
type Service interface {
	// Aggregate returns nil, nil when no route exists for the document type,
	// and an UpstreamError when the primary document cannot be fetched.
	// Every other part is optional and left nil on failure.
	Aggregate(ctx context.Context, dt *domain.DocumentType, documentID int64) (*domain.DocumentView, error)
}

type Options struct {
	WarehouseBaseURL string
	CatalogBaseURL   string
	Timeout          time.Duration
	ImageTimeout     time.Duration
	Routes           map[string]Route
}

type service struct {
	creds  credential.Service
	client *http.Client
	assets AssetCache
	opts   Options
	routes routingTable
	log    *zap.Logger
}

// NewService builds the aggregator. assets may be nil.
func NewService(creds credential.Service, client *http.Client, assets AssetCache, opts Options, log *zap.Logger) Service {
	if client == nil {
		client = &http.Client{}
	}
	if opts.Routes == nil {
		opts.Routes = DefaultRoutes()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.ImageTimeout <= 0 {
		opts.ImageTimeout = 5 * time.Second
	}
	opts.WarehouseBaseURL = strings.TrimRight(opts.WarehouseBaseURL, "/")
	opts.CatalogBaseURL = strings.TrimRight(opts.CatalogBaseURL, "/")

	return &service{
		creds:  creds,
		client: client,
		assets: assets,
		opts:   opts,
		routes: newRoutingTable(opts.Routes),
		log:    logger.OrNop(log).Named("aggregator"),
	}
}

func (s *service) Aggregate(ctx context.Context, dt *domain.DocumentType, documentID int64) (*domain.DocumentView, error) {
	route, ok := s.routes.lookup(dt.Code)
	if !ok {
		s.log.Warn("no route for document type", zap.String("code", dt.Code))
		return nil, nil
	}

	// One credential per aggregation; every document call shares it.
	token, err := s.creds.Issue()
	if err != nil {
		return nil, domain.NewUpstreamError("credential", err)
	}

	primaryURL := s.resolve(route.Primary, dt, documentID, 0)
	document, err := s.fetchJSON(ctx, route.Primary.Part, primaryURL, token)
	if err != nil {
		s.log.Error("failed to fetch primary document",
			zap.String("code", dt.Code), zap.Int64("document_id", documentID), zap.String("url", primaryURL), zap.Error(err))
		return nil, domain.NewUpstreamError(dt.Microservice, err)
	}

	view := &domain.DocumentView{Document: document}
	fields := topLevelFields(document)

	var g errgroup.Group
	for _, fetch := range route.Secondary {
		var key int64
		if fetch.Key != "" {
			key, ok = positiveInt(fields[fetch.Key])
			if !ok {
				continue
			}
		}
		url := s.resolve(fetch, dt, documentID, key)

		g.Go(func() error {
			data, err := s.fetchJSON(ctx, fetch.Part, url, token)
			if err != nil {
				s.log.Warn("optional fetch failed",
					zap.String("part", string(fetch.Part)), zap.String("url", url), zap.Error(err))
				return nil
			}
			setPart(view, fetch.Part, data)
			if fetch.Part == PartOrganization {
				s.fetchBranding(ctx, view, data)
			}
			return nil
		})
	}
	_ = g.Wait()

	return view, nil
}

func (s *service) resolve(f Fetch, dt *domain.DocumentType, documentID, key int64) string {
	var base string
	switch f.Host {
	case HostWarehouse:
		base = s.opts.WarehouseBaseURL
	case HostCatalog:
		base = s.opts.CatalogBaseURL
	default:
		base = strings.TrimRight(dt.BaseURL, "/")
	}

	path := strings.ReplaceAll(f.Path, "{id}", strconv.FormatInt(documentID, 10))
	path = strings.ReplaceAll(path, "{key}", strconv.FormatInt(key, 10))
	return base + path
}

// fetchBranding loads the three organization images concurrently. The
// secondary logo falls back to the primary one.
func (s *service) fetchBranding(ctx context.Context, view *domain.DocumentView, organization json.RawMessage) {
	fields := topLevelFields(organization)

	var logo, logo2, watermark *string
	var g errgroup.Group
	g.Go(func() error { logo = s.fetchImage(ctx, stringField(fields["picture"])); return nil })
	g.Go(func() error { logo2 = s.fetchImage(ctx, stringField(fields["picture2"])); return nil })
	g.Go(func() error { watermark = s.fetchImage(ctx, stringField(fields["picture3"])); return nil })
	_ = g.Wait()

	if logo2 == nil {
		logo2 = logo
	}
	view.LogoBase64 = logo
	view.Logo2Base64 = logo2
	view.WatermarkBase64 = watermark
}

func (s *service) fetchJSON(ctx context.Context, part Part, url, token string) (json.RawMessage, error) {
	start := time.Now()
	data, err := s.doFetchJSON(ctx, url, token)
	metrics.UpstreamFetchDuration.WithLabelValues(string(part)).Observe(time.Since(start).Seconds())
	metrics.UpstreamFetches.WithLabelValues(string(part), metrics.Outcome(err == nil)).Inc()
	return data, err
}

func (s *service) doFetchJSON(ctx context.Context, url, token string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if !json.Valid(body) || string(body) == "null" {
		return nil, errors.New("response is not a JSON document")
	}
	return json.RawMessage(body), nil
}

// fetchImage returns the image as a data URI, or nil. Images are public and
// fetched without the service credential.
func (s *service) fetchImage(ctx context.Context, url string) *string {
	if url == "" {
		return nil
	}

	if s.assets != nil {
		if uri, ok := s.assets.Get(ctx, url); ok {
			metrics.UpstreamFetches.WithLabelValues("image", "cache_hit").Inc()
			return &uri
		}
	}

	start := time.Now()
	contentType, data, err := s.doFetchImage(ctx, url)
	metrics.UpstreamFetchDuration.WithLabelValues("image").Observe(time.Since(start).Seconds())
	metrics.UpstreamFetches.WithLabelValues("image", metrics.Outcome(err == nil)).Inc()
	if err != nil {
		s.log.Warn("failed to fetch branding image", zap.String("url", url), zap.Error(err))
		return nil
	}

	if s.assets != nil {
		s.assets.Put(ctx, url, contentType, data)
	}
	uri := dataURI(contentType, data)
	return &uri
}

func (s *service) doFetchImage(ctx context.Context, url string) (string, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ImageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty image")
	}

	return imageContentType(resp.Header.Get("Content-Type"), data), data, nil
}

// imageContentType trusts the declared type only when it names an image.
// Asset hosts often serve logos as octet-stream or with a sniffed text type,
// which would not render as a data URI.
func imageContentType(declared string, data []byte) string {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if strings.HasPrefix(contentType, "image/") {
		return contentType
	}
	contentType = strings.Split(http.DetectContentType(data), ";")[0]
	if strings.HasPrefix(contentType, "image/") {
		return contentType
	}
	return defaultImageType
}

func setPart(view *domain.DocumentView, part Part, data json.RawMessage) {
	switch part {
	case PartDetails:
		view.Details = data
	case PartOrganization:
		view.CompanyData = data
	case PartCounterparty:
		view.ProviderData = data
	case PartReference:
		view.Materials = data
	}
}

func topLevelFields(doc json.RawMessage) map[string]json.RawMessage {
	fields := map[string]json.RawMessage{}
	_ = json.Unmarshal(doc, &fields)
	return fields
}

// positiveInt accepts both JSON numbers and numeric strings.
func positiveInt(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, false
		}
		n, err = strconv.ParseInt(strings.TrimSpace(str), 10, 64)
		if err != nil {
			return 0, false
		}
	}
	return n, n > 0
}

func stringField(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return ""
	}
	return strings.TrimSpace(str)
}
