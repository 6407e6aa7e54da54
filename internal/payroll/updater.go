package payroll

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"payslip/adapters/excel"
	"payslip/domain/core"
	"payslip/domain/payroll"
	"payslip/internal"
	"payslip/ports"
)

// Stat outcomes recorded when the mirror falls back to creating the object.
const (
	StatNotFound = "not_found"
	StatError    = "error"
)

// DefaultCommitMessage labels every mirrored upload.
const DefaultCommitMessage = "Update salary data"

// Upload is one spreadsheet submitted for replacement.
type Upload struct {
	FileName string
	Data     []byte
}

// ReplaceResult reports what a replacement did. The local write always
// happened when a result is returned; the mirror may not have.
type ReplaceResult struct {
	UploadID    core.UploadID `json:"upload_id"`
	Records     int           `json:"records"`
	Bytes       int           `json:"bytes"`
	Mirror      string        `json:"mirror,omitempty"`
	Mirrored    bool          `json:"mirrored"`
	Created     bool          `json:"created"`
	Revision    core.Revision `json:"revision,omitempty"`
	StatFailure string        `json:"stat_failure,omitempty"`
	MirrorErr   error         `json:"-"`
	MirrorError string        `json:"mirror_error,omitempty"`
	Summary     *Summary      `json:"summary"`
}

// UpdaterConfig holds the updater's collaborators. Blobs may be nil, in which
// case nothing is mirrored.
type UpdaterConfig struct {
	Credential payroll.Credential
	Sink       ports.DatasetSink
	Blobs      ports.BlobStore
	RemoteKey  string
	Logger     *internal.Logger
}

// Updater replaces the serving dataset and mirrors it to the remote store.
type Updater struct {
	credential payroll.Credential
	sink       ports.DatasetSink
	blobs      ports.BlobStore
	remoteKey  string
	logger     *internal.Logger
}

// NewUpdater creates an updater
func NewUpdater(cfg UpdaterConfig) *Updater {
	logger := cfg.Logger
	if logger == nil {
		logger = internal.Discard
	}
	key := cfg.RemoteKey
	if key == "" {
		key = "salary_data.xlsx"
	}
	return &Updater{
		credential: cfg.Credential,
		sink:       cfg.Sink,
		blobs:      cfg.Blobs,
		remoteKey:  key,
		logger:     logger,
	}
}

// Authorize reports whether password unlocks replacement.
func (u *Updater) Authorize(password string) bool {
	return u.credential.Matches(password)
}

// Replace checks the credential, validates the payload, writes it locally and
// mirrors it. A wrong credential or an unusable payload leaves everything
// untouched. Mirror failures are reported in the result, not as an error.
func (u *Updater) Replace(ctx context.Context, password string, upload Upload) (*ReplaceResult, error) {
	if !u.Authorize(password) {
		u.logger.Warn("[Updater] replacement denied: bad credential")
		return nil, core.ErrInvalidCredential
	}

	ds, payload, err := u.prepare(upload)
	if err != nil {
		u.logger.Warn("[Updater] rejected %s: %v", upload.FileName, err)
		return nil, err
	}

	result := &ReplaceResult{
		UploadID: core.NewUploadID(),
		Records:  ds.Len(),
		Bytes:    len(payload),
		Summary:  Summarize(ds),
	}
	log := u.logger.With("upload_id", result.UploadID.String())

	if err := u.sink.Replace(ctx, payload); err != nil {
		log.Error("[Updater] local write failed: %v", err)
		if core.IsUploadFailure(err) {
			return nil, err
		}
		return nil, core.NewUploadError("local write", err)
	}
	log.Info("[Updater] replaced dataset (%d records, %d bytes)", result.Records, result.Bytes)

	if u.blobs != nil {
		u.mirror(ctx, payload, result, log)
	}
	return result, nil
}

// prepare parses the upload and returns the bytes to serve. CSV uploads are
// re-encoded as xlsx so the serving file has one format.
func (u *Updater) prepare(upload Upload) (*payroll.Dataset, []byte, error) {
	if len(upload.Data) == 0 {
		return nil, nil, core.NewUploadError("read", errors.New("empty file"))
	}
	parsed, err := excel.ReadBytes(upload.FileName, upload.Data)
	if err != nil {
		return nil, nil, core.NewUploadError("parse", err)
	}
	ds := parsed.Dataset()
	if !ds.Servable() {
		return nil, nil, core.NewUploadError("validate", fmt.Errorf("missing column %q", payroll.ColumnID))
	}

	if strings.EqualFold(filepath.Ext(upload.FileName), ".csv") {
		payload, err := excel.EncodeDataset(ds)
		if err != nil {
			return nil, nil, core.NewUploadError("convert", err)
		}
		return ds, payload, nil
	}
	return ds, upload.Data, nil
}

// mirror pushes payload to the blob store. When Stat fails for any reason the
// object is created; the Stat failure is classified and recorded.
func (u *Updater) mirror(ctx context.Context, payload []byte, result *ReplaceResult, log *internal.Logger) {
	result.Mirror = u.blobs.Name()
	message := fmt.Sprintf("%s (%s)", DefaultCommitMessage, core.ID(result.UploadID).Short())

	var (
		meta *ports.BlobMeta
		err  error
	)
	current, statErr := u.blobs.Stat(ctx, u.remoteKey)
	if statErr == nil {
		meta, err = u.blobs.Update(ctx, u.remoteKey, payload, current.Revision, message)
	} else {
		if core.IsBlobNotFound(statErr) {
			result.StatFailure = StatNotFound
			log.Info("[Updater] %s has no %s yet, creating", result.Mirror, u.remoteKey)
		} else {
			result.StatFailure = StatError
			log.Warn("[Updater] stat on %s failed, falling back to create: %v", result.Mirror, statErr)
		}
		result.Created = true
		meta, err = u.blobs.Create(ctx, u.remoteKey, payload, message)
	}

	if err != nil {
		result.MirrorErr = err
		result.MirrorError = err.Error()
		log.Error("[Updater] mirror to %s failed: %v", result.Mirror, err)
		return
	}
	result.Mirrored = true
	result.Revision = meta.Revision
	log.Info("[Updater] mirrored to %s at %s", result.Mirror, meta.Revision)
}
