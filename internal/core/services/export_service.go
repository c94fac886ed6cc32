package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/ports"
)

const (
	notifyTitle      = "Zip Export"
	notifyErrorTitle = "Export Error"

	DefaultInfoDuration    = 2 * time.Second
	DefaultSuccessDuration = 3 * time.Second
	DefaultErrorDuration   = 4 * time.Second
)

// ExportDeps are the host collaborators an export run talks to
type ExportDeps struct {
	Grid        ports.ViewportGridService
	DisplaySets ports.DisplaySetService
	Surfaces    ports.SurfaceLocator
	Blobs       ports.BlobStore
	Trigger     ports.DownloadTrigger
	Notifier    ports.Notifier
}

// ExportOptions tune an export service
type ExportOptions struct {
	CaptureTimeout time.Duration    // 0 waits for the surface indefinitely
	InfoDuration   time.Duration    // how long progress notifications stay up
	Now            func() time.Time // clock, defaults to time.Now
}

// ExportService sequences the export phases: resolve the viewport context,
// extract metadata, capture the image, build the archive and deliver it.
// A failing phase moves the run straight to Failed.
type ExportService struct {
	resolver *ContextResolver
	identity *IdentityExtractor
	dates    *StudyDateExtractor
	capturer *ImageCapturer
	archive  *ArchiveBuilder
	delivery *Delivery
	notifier ports.Notifier

	infoDuration time.Duration
	now          func() time.Time
	running      atomic.Bool
}

// NewExportService wires the pipeline components around the injected collaborators
func NewExportService(deps ExportDeps, opts ExportOptions) *ExportService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	info := opts.InfoDuration
	if info <= 0 {
		info = DefaultInfoDuration
	}

	return &ExportService{
		resolver:     NewContextResolver(deps.Grid, deps.DisplaySets),
		identity:     NewIdentityExtractor(),
		dates:        NewStudyDateExtractor(),
		capturer:     NewImageCapturer(deps.Surfaces, opts.CaptureTimeout),
		archive:      NewArchiveBuilder(now),
		delivery:     NewDelivery(deps.Blobs, deps.Trigger),
		notifier:     deps.Notifier,
		infoDuration: info,
		now:          now,
	}
}

// Running reports whether an export is in flight
func (s *ExportService) Running() bool {
	return s.running.Load()
}

// run carries the state of a single invocation
type run struct {
	result *domain.ExportResult
	phase  domain.Phase
}

func (r *run) enter(p domain.Phase) {
	r.phase = p
	r.result.Trace = append(r.result.Trace, p)
}

// Execute performs one export. The returned result is never nil; the error
// is non-nil exactly when the run failed.
func (s *ExportService) Execute(ctx context.Context) (*domain.ExportResult, error) {
	r := &run{result: &domain.ExportResult{
		ID:        uuid.NewString(),
		StartedAt: s.now(),
	}}
	r.enter(domain.PhaseInit)

	if !s.running.CompareAndSwap(false, true) {
		return s.fail(ctx, r, domain.ErrExportInProgress)
	}
	defer s.running.Store(false)

	// Resolving context
	s.begin(r, domain.PhaseResolvingContext)
	exportCtx, err := s.resolver.Resolve(ctx)
	if err != nil {
		return s.fail(ctx, r, err)
	}

	// Extracting metadata (never fails)
	s.begin(r, domain.PhaseExtractingMetadata)
	patient := s.identity.Extract(exportCtx.FirstInstance)
	date := s.dates.Extract(exportCtx.FirstInstance, exportCtx.DisplaySet)
	logger.L().Ctx(ctx).Debug("metadata extracted",
		helpers.String("exportID", r.result.ID),
		helpers.String("patientSource", string(patient.Source)),
		helpers.String("studyDate", date.Value))

	// Capturing image
	s.begin(r, domain.PhaseCapturingImage)
	img, err := s.capturer.Capture(ctx, exportCtx.ActiveViewportID)
	if err != nil {
		return s.fail(ctx, r, err)
	}

	// Building archive
	s.begin(r, domain.PhaseBuildingArchive)
	manifest, err := s.archive.Build(ctx, img, ArchiveFields{
		Patient:               patient,
		StudyDate:             date,
		StudyInstanceUID:      exportCtx.StudyInstanceUID,
		DisplaySetInstanceUID: exportCtx.DisplaySetInstanceUID,
	})
	if err != nil {
		return s.fail(ctx, r, err)
	}

	// Delivering
	s.begin(r, domain.PhaseDelivering)
	delivered, err := s.delivery.Deliver(ctx, manifest, patient, date)
	if err != nil {
		return s.fail(ctx, r, err)
	}

	r.enter(domain.PhaseSucceeded)
	r.result.Status = domain.StatusSucceeded
	r.result.Filename = delivered.Filename
	r.result.SavedPath = delivered.SavedPath
	r.result.Message = fmt.Sprintf("Exported %s", delivered.Filename)
	r.result.FinishedAt = s.now()

	s.notify(domain.Notification{
		Title:    notifyTitle,
		Message:  fmt.Sprintf("Archive saved as %s", delivered.Filename),
		Type:     domain.NotifySuccess,
		Duration: DefaultSuccessDuration,
	})
	logger.L().Ctx(ctx).Info("export succeeded",
		helpers.String("exportID", r.result.ID),
		helpers.String("filename", delivered.Filename),
		helpers.Int("size", delivered.Size))

	return r.result, nil
}

// begin moves the run to phase p and announces it
func (s *ExportService) begin(r *run, p domain.Phase) {
	r.enter(p)
	s.notify(domain.Notification{
		Title:    notifyTitle,
		Message:  p.Progress(),
		Type:     domain.NotifyInfo,
		Duration: s.infoDuration,
	})
}

// fail moves the run to Failed, tells the user and writes a diagnostic record
func (s *ExportService) fail(ctx context.Context, r *run, err error) (*domain.ExportResult, error) {
	failedIn := r.phase
	condition := domain.ConditionOf(err)

	r.enter(domain.PhaseFailed)
	r.result.Status = domain.StatusFailed
	r.result.Phase = failedIn
	r.result.Condition = condition
	r.result.Message = condition.Describe()
	r.result.FinishedAt = s.now()

	s.notify(domain.Notification{
		Title:    notifyErrorTitle,
		Message:  condition.Describe(),
		Type:     domain.NotifyError,
		Duration: DefaultErrorDuration,
	})
	logger.L().Ctx(ctx).Error("export failed",
		helpers.String("exportID", r.result.ID),
		helpers.String("phase", string(failedIn)),
		helpers.String("condition", string(condition)),
		helpers.Error(err))

	return r.result, fmt.Errorf("export %s failed in %s: %w", r.result.ID, failedIn, err)
}

func (s *ExportService) notify(n domain.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Show(n)
}
