package service

import (
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"doc-authorizer/internal/config"
	"doc-authorizer/internal/repository"
	"doc-authorizer/internal/service/aggregator"
	"doc-authorizer/internal/service/approval"
	"doc-authorizer/internal/service/callback"
	"doc-authorizer/internal/service/credential"
	"doc-authorizer/internal/service/directory"
	"doc-authorizer/internal/service/documenttype"
	"doc-authorizer/internal/service/email"
	"doc-authorizer/internal/service/messaging"
	"doc-authorizer/internal/service/notification"
	"doc-authorizer/internal/service/publicview"
	"doc-authorizer/internal/service/webhook"
)

type Services struct {
	Credential   credential.Service
	Directory    directory.Service
	Gateway      messaging.Gateway
	Aggregator   aggregator.Service
	Callbacks    callback.Dispatcher
	Email        email.Service
	Approval     approval.Service
	Notification notification.Service
	DocumentType documenttype.Service
	PublicView   publicview.Service
	Webhook      webhook.Router
}

// NewServices wires every service. redis and minioClient may be nil; the
// caches they back are then skipped.
func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, bot messaging.BotAPI, cfg *config.Config, log *zap.Logger) *Services {
	httpClient := &http.Client{}

	credentialService := credential.NewService(cfg)
	directoryService := directory.NewService(repos.User, redis, cfg.DirectoryCacheTTL, log)
	gateway := messaging.NewGateway(bot, cfg.Locale, log)
	emailService := email.NewService(cfg, log)
	dispatcher := callback.NewDispatcher(credentialService, httpClient, cfg.UpstreamTimeout, log)

	var assets aggregator.AssetCache
	if minioClient != nil {
		assets = aggregator.NewMinIOAssetCache(minioClient, cfg.MinIOBucket, log)
	}
	aggregatorService := aggregator.NewService(credentialService, httpClient, assets, aggregator.Options{
		WarehouseBaseURL: cfg.WarehouseBaseURL,
		CatalogBaseURL:   cfg.CatalogBaseURL,
		Timeout:          cfg.UpstreamTimeout,
		ImageTimeout:     cfg.ImageTimeout,
	}, log)

	approvalService := approval.NewService(approval.Dependencies{
		Notifications: repos.Notification,
		DocumentTypes: repos.DocumentType,
		Logs:          repos.NotificationLog,
		Directory:     directoryService,
		Gateway:       gateway,
		Callbacks:     dispatcher,
		Email:         emailService,
	}, approval.Options{
		PublicViewURL: cfg.PublicViewURL,
		Locale:        cfg.Locale,
	}, log)

	notificationService := notification.NewService(repos.Notification, repos.DocumentType, repos.NotificationLog, directoryService, cfg.PublicViewURL, log)
	documentTypeService := documenttype.NewService(repos.DocumentType, log)
	publicViewService := publicview.NewService(repos.Notification, repos.DocumentType, directoryService, aggregatorService, redis, publicview.Options{
		TokenTTL: cfg.ViewTokenTTL,
		CacheTTL: cfg.ViewCacheTTL,
		Locale:   cfg.Locale,
	}, log)
	webhookRouter := webhook.NewRouter(approvalService, gateway, redis, webhook.Options{
		Secret:    cfg.TelegramWebhookSecret,
		DedupeTTL: cfg.WebhookDedupeTTL,
		Locale:    cfg.Locale,
	}, log)

	return &Services{
		Credential:   credentialService,
		Directory:    directoryService,
		Gateway:      gateway,
		Aggregator:   aggregatorService,
		Callbacks:    dispatcher,
		Email:        emailService,
		Approval:     approvalService,
		Notification: notificationService,
		DocumentType: documentTypeService,
		PublicView:   publicViewService,
		Webhook:      webhookRouter,
	}
}
