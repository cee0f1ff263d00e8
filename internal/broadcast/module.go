// Package broadcast is the WhatsApp broadcast bounded context: message
// formatting, collage and flyer rendering, share links, and the history
// log.
package broadcast

import (
	"wholesale_portal_backend/internal/adapters/storage"
	"wholesale_portal_backend/internal/branding"
	"wholesale_portal_backend/internal/broadcast/formatter"
	"wholesale_portal_backend/internal/broadcast/handler"
	"wholesale_portal_backend/internal/broadcast/repository"
	"wholesale_portal_backend/internal/broadcast/service"
	"wholesale_portal_backend/internal/broadcast/sharelink"
	"wholesale_portal_backend/internal/collage"
	"wholesale_portal_backend/internal/email"
	"wholesale_portal_backend/internal/flyer"
	apphttp "wholesale_portal_backend/internal/http"
	"wholesale_portal_backend/internal/imaging"
	"wholesale_portal_backend/platform/config"
	"wholesale_portal_backend/platform/logger"
	"wholesale_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ModuleConfig is the least-privilege configuration view this module needs.
type ModuleConfig interface {
	config.SiteConfig
	config.RenderConfig
	config.RedisConfig
	GetMinioBucketFlyers() string
}

// Module bundles the broadcast context's HTTP surface.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the broadcast context. pool, rdb, archive, and mailer may
// be nil; the matching features (history, cache, archive, email) degrade
// gracefully.
func NewModule(
	cfg ModuleConfig,
	brand branding.Profile,
	pool *pgxpool.Pool,
	rdb *redis.Client,
	archive storage.ArchiveService,
	mailer email.Sender,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	links := sharelink.New(cfg.GetSiteOrigin())
	fmtr := formatter.New(brand, links)
	fetcher := imaging.NewFetcher(cfg.GetImageFetchTimeout())

	plain := collage.NewRenderer(brand, fetcher, cfg.GetCollageJPEGQuality(), log)
	collageRenderer := collage.NewCachedRenderer(plain, rdb, cfg.GetCollageCacheTTL(), log)

	flyerGen := flyer.NewGenerator(brand, fetcher, links, log)

	var history service.HistoryRepo
	if pool != nil {
		history = repository.New(pool)
	}

	svc := service.New(fmtr, collageRenderer, flyerGen, links, history, archive, cfg.GetMinioBucketFlyers(), mailer, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "broadcast"
}

// Service exposes the orchestration layer for other composition roots
// (e.g. the offline flyer export command).
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/broadcast")
	m.handler.RegisterRoutes(group, ctx.RenderLimiter.RateLimit())
}

var _ apphttp.Module = (*Module)(nil)
