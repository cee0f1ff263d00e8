// Package service orchestrates the broadcast operations: text formatting,
// collage and flyer rendering, share links, artifact archiving, email
// delivery, and best-effort history logging.
package service

import (
	"bytes"
	"context"
	"time"

	"wholesale_portal_backend/internal/adapters/storage"
	"wholesale_portal_backend/internal/broadcast/domain"
	"wholesale_portal_backend/internal/broadcast/formatter"
	"wholesale_portal_backend/internal/broadcast/repository"
	"wholesale_portal_backend/internal/broadcast/sharelink"
	"wholesale_portal_backend/internal/broadcast/transport"
	"wholesale_portal_backend/internal/email"
	"wholesale_portal_backend/platform/apperr"
	"wholesale_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// CollageRenderer renders the 2-4 tile collage. Satisfied by both the plain
// and the cached renderer.
type CollageRenderer interface {
	Generate(ctx context.Context, props []domain.PropertyRecord) (string, error)
}

// FlyerGenerator renders the deal sheet PDF.
type FlyerGenerator interface {
	Generate(ctx context.Context, props []domain.PropertyRecord, includeImages bool) ([]byte, error)
	Filename(count int) string
}

// HistoryRepo persists the broadcast log. Nil disables history.
type HistoryRepo interface {
	Insert(ctx context.Context, entry repository.LogEntry) error
	List(ctx context.Context, limit int) ([]repository.LogEntry, error)
}

// Service wires the rendering pipeline together. Optional collaborators
// (history, archive, mail) are nil when their backing system is not
// configured; the corresponding operations then degrade or refuse.
type Service struct {
	formatter   *formatter.Formatter
	collage     CollageRenderer
	flyer       FlyerGenerator
	links       *sharelink.Builder
	history     HistoryRepo
	archive     storage.ArchiveService
	flyerBucket string
	mailer      email.Sender
	log         *logger.Logger
}

func New(
	fmtr *formatter.Formatter,
	collage CollageRenderer,
	flyer FlyerGenerator,
	links *sharelink.Builder,
	history HistoryRepo,
	archive storage.ArchiveService,
	flyerBucket string,
	mailer email.Sender,
	log *logger.Logger,
) *Service {
	return &Service{
		formatter:   fmtr,
		collage:     collage,
		flyer:       flyer,
		links:       links,
		history:     history,
		archive:     archive,
		flyerBucket: flyerBucket,
		mailer:      mailer,
		log:         log,
	}
}

// Preview formats the detailed broadcast and returns it with stats and the
// recommended attachment strategy.
func (s *Service) Preview(ctx context.Context, req transport.PreviewRequest, userID *uuid.UUID) (*transport.PreviewResponse, error) {
	props := transport.ToDomainList(req.Properties)

	opts := formatter.MessageOptions{}
	if req.Options != nil {
		opts.HeaderText = req.Options.HeaderText
		opts.FooterText = req.Options.FooterText
		opts.IncludeTimestamp = req.Options.IncludeTimestamp
	}

	msg, err := s.formatter.FormatBroadcastMessage(props, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "format broadcast", err).WithOp("broadcast.Preview")
	}

	stats := s.formatter.Stats(msg)
	strategy := formatter.StrategyFor(len(props))

	s.logBroadcast(ctx, "message", len(props), stats.CharCount, string(strategy.Type), userID)

	return &transport.PreviewResponse{
		Message: msg,
		Stats:   statsPayload(stats),
		Strategy: transport.StrategyPayload{
			Type:        string(strategy.Type),
			Description: strategy.Description,
		},
	}, nil
}

// Compact formats the dense one-line-per-deal broadcast.
func (s *Service) Compact(ctx context.Context, req transport.CompactRequest, userID *uuid.UUID) (*transport.CompactResponse, error) {
	props := transport.ToDomainList(req.Properties)

	msg, err := s.formatter.FormatCompactBroadcast(props)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "format compact broadcast", err).WithOp("broadcast.Compact")
	}

	stats := s.formatter.Stats(msg)
	s.logBroadcast(ctx, "compact", len(props), stats.CharCount, string(formatter.StrategyFor(len(props)).Type), userID)

	return &transport.CompactResponse{
		Message: msg,
		Stats:   statsPayload(stats),
	}, nil
}

// Truncate shortens a formatted message at a block boundary.
func (s *Service) Truncate(req transport.TruncateRequest) *transport.TruncateResponse {
	out := s.formatter.Truncate(req.Message, req.MaxChars)
	stats := s.formatter.Stats(out)
	return &transport.TruncateResponse{
		Message:   out,
		Truncated: out != req.Message,
		CharCount: stats.CharCount,
	}
}

// Collage renders the 2-4 tile collage image.
func (s *Service) Collage(ctx context.Context, req transport.CollageRequest, userID *uuid.UUID) (*transport.CollageResponse, error) {
	props := transport.ToDomainList(req.Properties)

	start := time.Now()
	dataURL, err := s.collage.Generate(ctx, props)
	if err != nil {
		return nil, err
	}
	s.log.RenderEvent("collage", len(props), float64(time.Since(start).Milliseconds()))

	s.logBroadcast(ctx, "collage", len(props), 0, string(formatter.StrategyCollage), userID)

	return &transport.CollageResponse{DataURL: dataURL}, nil
}

// Flyer renders the deal sheet PDF and returns the bytes plus the download
// filename.
func (s *Service) Flyer(ctx context.Context, req transport.FlyerRequest, userID *uuid.UUID) ([]byte, string, error) {
	props := transport.ToDomainList(req.Properties)

	start := time.Now()
	pdf, err := s.flyer.Generate(ctx, props, req.IncludeImages)
	if err != nil {
		return nil, "", err
	}
	s.log.RenderEvent("flyer", len(props), float64(time.Since(start).Milliseconds()))

	s.logBroadcast(ctx, "flyer", len(props), 0, string(formatter.StrategyPDF), userID)

	return pdf, s.flyer.Filename(len(props)), nil
}

// FlyerArchive renders the flyer, stores it in object storage, and returns
// a presigned download link.
func (s *Service) FlyerArchive(ctx context.Context, req transport.FlyerRequest, userID *uuid.UUID) (*transport.FlyerArchiveResponse, error) {
	if s.archive == nil {
		return nil, apperr.Unavailable("artifact storage is not configured").WithOp("broadcast.FlyerArchive")
	}

	pdf, filename, err := s.Flyer(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	fileKey, err := s.archive.UploadArtifact(ctx, s.flyerBucket, filename, "application/pdf", bytes.NewReader(pdf), int64(len(pdf)))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "archive flyer", err).WithOp("broadcast.FlyerArchive")
	}

	link, err := s.archive.GenerateDownloadURL(ctx, s.flyerBucket, fileKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "presign flyer download", err).WithOp("broadcast.FlyerArchive")
	}

	return &transport.FlyerArchiveResponse{
		URL:       link.URL,
		FileKey:   link.FileKey,
		ExpiresAt: link.ExpiresAt,
	}, nil
}

// FlyerEmail renders the flyer and emails it to one recipient.
func (s *Service) FlyerEmail(ctx context.Context, req transport.FlyerEmailRequest, userID *uuid.UUID) error {
	if s.mailer == nil {
		return apperr.Unavailable("email delivery is not configured").WithOp("broadcast.FlyerEmail")
	}

	pdf, filename, err := s.Flyer(ctx, transport.FlyerRequest{
		Properties:    req.Properties,
		IncludeImages: req.IncludeImages,
	}, userID)
	if err != nil {
		return err
	}

	err = s.mailer.SendFlyerEmail(ctx, req.To, len(req.Properties), s.links.ListingsURL(),
		email.Attachment{FileName: filename, Content: pdf})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "send flyer email", err).WithOp("broadcast.FlyerEmail")
	}
	return nil
}

// WhatsAppLink builds the chat deep link for a formatted message.
func (s *Service) WhatsAppLink(req transport.WhatsAppLinkRequest) *transport.LinkResponse {
	return &transport.LinkResponse{URL: s.links.WhatsAppURL(req.Message, req.Phone)}
}

// PropertyLink builds the cache-busted public page URL for one property.
func (s *Service) PropertyLink(propertyID string) *transport.LinkResponse {
	return &transport.LinkResponse{URL: s.links.PropertyURL(propertyID)}
}

// History lists recent broadcasts. Returns an empty list when history is
// disabled.
func (s *Service) History(ctx context.Context, limit int) (*transport.HistoryResponse, error) {
	resp := &transport.HistoryResponse{Items: []transport.HistoryEntry{}}
	if s.history == nil {
		return resp, nil
	}

	entries, err := s.history.List(ctx, limit)
	if err != nil {
		appErr := apperr.Internal("list broadcast history").WithOp("broadcast.History")
		appErr.Err = err
		return nil, appErr
	}

	for _, e := range entries {
		item := transport.HistoryEntry{
			ID:            e.ID.String(),
			Kind:          e.Kind,
			PropertyCount: e.PropertyCount,
			CharCount:     e.CharCount,
			MediaStrategy: e.MediaStrategy,
			CreatedAt:     e.CreatedAt,
		}
		if e.CreatedBy != nil {
			id := e.CreatedBy.String()
			item.CreatedBy = &id
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

// logBroadcast records a history row. Failures are logged and swallowed;
// history must never block a render.
func (s *Service) logBroadcast(ctx context.Context, kind string, propertyCount, charCount int, strategy string, userID *uuid.UUID) {
	if s.history == nil {
		return
	}
	err := s.history.Insert(ctx, repository.LogEntry{
		Kind:          kind,
		PropertyCount: propertyCount,
		CharCount:     charCount,
		MediaStrategy: strategy,
		CreatedBy:     userID,
	})
	if err != nil {
		s.log.DatabaseError("insert broadcast log", err)
	}
}

func statsPayload(stats formatter.MessageStats) transport.StatsPayload {
	return transport.StatsPayload{
		CharCount:   stats.CharCount,
		PercentUsed: stats.PercentUsed,
		IsOverLimit: stats.IsOverLimit,
	}
}
