package services

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"legaluplift/pkg/clients/leadmarket"
	"legaluplift/pkg/clients/trustedform"
	"legaluplift/pkg/models"
	"legaluplift/pkg/payloads"
	"legaluplift/pkg/utils"
	"legaluplift/pkg/wizard"
)

// Stages reported with a failure.
const (
	StageConsent = "consent"
	StagePing    = "ping"
	StagePost    = "post"
)

// Outcome is the result of one submission attempt.
type Outcome struct {
	Status models.SubmissionStatus
	LeadID string
	BidID  string
	Price  float64
	Err    error
}

// LeadSubmissionService defines the interface for selling a qualified lead
type LeadSubmissionService interface {
	Submit(ctx context.Context, lead wizard.Lead) Outcome
}

// SubmissionSettings are the campaign values every submission shares.
type SubmissionSettings struct {
	Campaign         payloads.Campaign
	TCPALanguage     string
	DefaultIPAddress string
	LandingPageURL   string
}

type leadSubmissionServiceImpl struct {
	marketClient  leadmarket.Client
	consentClient trustedform.Client
	reporter      Reporter
	settings      SubmissionSettings
	logger        *slog.Logger
	tracer        trace.Tracer
}

// NewLeadSubmissionService creates a new submission service
func NewLeadSubmissionService(
	marketClient leadmarket.Client,
	consentClient trustedform.Client,
	reporter Reporter,
	settings SubmissionSettings,
	logger *slog.Logger,
) LeadSubmissionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &leadSubmissionServiceImpl{
		marketClient:  marketClient,
		consentClient: consentClient,
		reporter:      reporter,
		settings:      settings,
		logger:        logger,
		tracer:        otel.Tracer("legaluplift/services"),
	}
}

// Submit runs consent, ping and post strictly in sequence. Nothing is
// retried: any failure ends this attempt.
func (s *leadSubmissionServiceImpl) Submit(ctx context.Context, lead wizard.Lead) Outcome {
	ref := utils.LeadRef(lead.Form.Phone)
	meta := s.requestMeta(lead.Meta)

	ctx, span := s.tracer.Start(ctx, "lead.submit", trace.WithAttributes(
		attribute.String("lead.ref", ref),
		attribute.String("lead.injury", lead.Form.InjuryType()),
	))
	defer span.End()

	s.logger.Info("processing lead submission", "lead", ref, "injury", lead.Form.InjuryType())

	certURL, err := s.consentClient.RetainCertificate(ctx, lead.Form.TrustedFormCertURL, ref)
	if err != nil {
		return s.fail(ctx, StageConsent, ref, err)
	}

	pingReq := payloads.BuildPingPayload(lead.Form, s.settings.Campaign, meta)
	pingRes, err := s.ping(ctx, pingReq)
	if errors.Is(err, leadmarket.ErrRejected) {
		s.logger.Info("no buyer for lead", "lead", ref, "error", err)
		return Outcome{Status: models.SubmissionNoBid}
	}
	if err != nil {
		return s.fail(ctx, StagePing, ref, err)
	}

	bid, ok := pingRes.BestBid()
	if !ok || pingRes.LeadID == "" {
		s.logger.Info("ping accepted without a usable bid", "lead", ref)
		return Outcome{Status: models.SubmissionNoBid, LeadID: pingRes.LeadID}
	}
	span.SetAttributes(attribute.String("lead.id", pingRes.LeadID), attribute.Float64("bid.price", bid.Price))

	postReq := payloads.BuildPostPayload(lead.Form, s.settings.Campaign, meta,
		pingRes.LeadID, bid.BidID, certURL, s.settings.TCPALanguage)
	if err := s.post(ctx, postReq); err != nil {
		outcome := s.fail(ctx, StagePost, ref, err)
		outcome.LeadID, outcome.BidID = pingRes.LeadID, bid.BidID
		return outcome
	}

	s.logger.Info("lead sold", "lead", ref, "lead_id", pingRes.LeadID, "bid_id", bid.BidID, "price", bid.Price)
	return Outcome{
		Status: models.SubmissionSold,
		LeadID: pingRes.LeadID,
		BidID:  bid.BidID,
		Price:  bid.Price,
	}
}

func (s *leadSubmissionServiceImpl) ping(ctx context.Context, req leadmarket.PingRequest) (*leadmarket.Result, error) {
	ctx, span := s.tracer.Start(ctx, "leadmarket.ping")
	defer span.End()
	return s.marketClient.Ping(ctx, req)
}

func (s *leadSubmissionServiceImpl) post(ctx context.Context, req leadmarket.PostRequest) error {
	ctx, span := s.tracer.Start(ctx, "leadmarket.post")
	defer span.End()
	_, err := s.marketClient.Post(ctx, req)
	return err
}

func (s *leadSubmissionServiceImpl) fail(ctx context.Context, stage, ref string, err error) Outcome {
	s.reporter.ReportFailure(ctx, stage, ref, err)
	return Outcome{Status: models.SubmissionFailed, Err: err}
}

func (s *leadSubmissionServiceImpl) requestMeta(meta payloads.RequestMeta) payloads.RequestMeta {
	if meta.IPAddress == "" {
		meta.IPAddress = s.settings.DefaultIPAddress
	}
	if meta.LandingPage == "" {
		meta.LandingPage = s.settings.LandingPageURL
	}
	return meta
}
