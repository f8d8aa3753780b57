package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/fitprogress/internal/profiles"
	"github.com/2beens/fitprogress/internal/progress/evaluation"
	"github.com/2beens/fitprogress/internal/telemetry/metrics"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	rootBackupsFolderName = "fitprogress-evaluations"
	folderMimeType        = "application/vnd.google-apps.folder"

	snapshotsFileChunkSize = 200
	// evaluations exported per user
	maxSnapshotsPerUser = 5000
)

type evaluationsSource interface {
	Recent(ctx context.Context, userID, limit int) ([]evaluation.Snapshot, error)
}

type usersSource interface {
	ListAll(ctx context.Context) ([]profiles.Profile, error)
}

type DriveExporterParams struct {
	Evaluations    evaluationsSource
	Users          usersSource
	MetricsManager *metrics.Manager
	// ShareWith gets reader access to every created file when set.
	ShareWith string
}

// DriveExporter writes the stored evaluation snapshots as JSON files to a Google Drive folder.
type DriveExporter struct {
	service        *drive.Service
	evaluations    evaluationsSource
	users          usersSource
	metricsManager *metrics.Manager
	shareWith      string
	folderID       string
}

// NewDriveExporter finds the backups folder, or creates it when missing.
func NewDriveExporter(ctx context.Context, params DriveExporterParams, opts ...option.ClientOption) (*DriveExporter, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	e := &DriveExporter{
		service:        driveService,
		evaluations:    params.Evaluations,
		users:          params.Users,
		metricsManager: params.MetricsManager,
		shareWith:      params.ShareWith,
	}

	folderID, err := e.findRootFolder(ctx)
	if err != nil {
		return nil, err
	}
	if folderID == "" {
		log.Infoln("evaluations backups folder not found, creating ...")
		folderID, err = e.createRootFolder(ctx)
		if err != nil {
			return nil, fmt.Errorf("create backups folder: %w", err)
		}
	}
	log.Debugf("using evaluations backups folder: %s", folderID)
	e.folderID = folderID

	return e, nil
}

func (e *DriveExporter) findRootFolder(ctx context.Context) (string, error) {
	q := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, rootBackupsFolderName)
	res, err := e.service.Files.List().Q(q).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list backups folders: %w", err)
	}

	switch len(res.Files) {
	case 0:
		return "", nil
	case 1:
		return res.Files[0].Id, nil
	default:
		log.Warnf("found %d backups folders, taking the first one: %s", len(res.Files), res.Files[0].Id)
		return res.Files[0].Id, nil
	}
}

func (e *DriveExporter) createRootFolder(ctx context.Context) (string, error) {
	folder, err := e.service.Files.Create(&drive.File{
		Name:     rootBackupsFolderName,
		MimeType: folderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if err := e.share(ctx, folder.Id); err != nil {
		return folder.Id, err
	}
	return folder.Id, nil
}

func (e *DriveExporter) share(ctx context.Context, fileID string) error {
	if e.shareWith == "" {
		return nil
	}
	_, err := e.service.Permissions.Create(fileID, &drive.Permission{
		EmailAddress: e.shareWith,
		Type:         "user",
		Role:         "reader",
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("share %s: %w", fileID, err)
	}
	return nil
}

// ExportAll exports every user's evaluations and returns how many snapshots were written.
// A failing user does not stop the others.
func (e *DriveExporter) ExportAll(ctx context.Context, baseTime time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.exportAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	users, err := e.users.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	var errs error
	for _, u := range users {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return total, multierr.Append(errs, ctxErr)
		}
		n, exportErr := e.ExportUser(ctx, u.UserID, baseTime)
		total += n
		if exportErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("user %d: %w", u.UserID, exportErr))
		}
	}

	span.SetAttributes(attribute.Int("snapshots.count", total))
	return total, errs
}

func (e *DriveExporter) ExportUser(ctx context.Context, userID int, baseTime time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.exportUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	snapshots, err := e.evaluations.Recent(ctx, userID, maxSnapshotsPerUser)
	if err != nil {
		return 0, fmt.Errorf("get evaluations: %w", err)
	}
	if len(snapshots) == 0 {
		log.Debugf("no evaluations to back up for user %d", userID)
		return 0, nil
	}

	baseFileName := fmt.Sprintf("evaluations-%d-%s", userID, baseTime.Format(pkg.DateLayout))
	written := 0
	for i, from := 1, 0; from < len(snapshots); i, from = i+1, from+snapshotsFileChunkSize {
		to := min(from+snapshotsFileChunkSize, len(snapshots))
		fileName := fmt.Sprintf("%s_%d.json", baseFileName, i)
		if err := e.upload(ctx, fileName, snapshots[from:to]); err != nil {
			return written, fmt.Errorf("%s: %w", fileName, err)
		}
		written += to - from
		e.metricsManager.CounterEvaluationsBackedUp.Add(float64(to - from))
		log.Debugf("%s: %d evaluations backed up", fileName, to-from)
	}

	return written, nil
}

func (e *DriveExporter) upload(ctx context.Context, fileName string, snapshots []evaluation.Snapshot) error {
	raw, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("marshal evaluations: %w", err)
	}

	file, err := e.service.Files.Create(&drive.File{
		Name:     fileName,
		MimeType: "application/json",
		Parents:  []string{e.folderID},
	}).Fields("id, parents").Media(bytes.NewReader(raw)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}

	return e.share(ctx, file.Id)
}
