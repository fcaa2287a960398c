package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/xid"

	"certinator/internal/domain"
	"certinator/internal/files"
	"certinator/internal/image"
	"certinator/internal/logging"
)

// EntryError records a name that was skipped by a batch.
type EntryError struct {
	Index int
	Name  string
	Err   error
}

// Report summarizes one batch run.
type Report struct {
	BatchID string
	Entries []string
	Skipped []EntryError
}

type CertificateService struct {
	renderer  *image.Renderer
	processor *image.Processor
}

func NewCertificateService(renderer *image.Renderer, processor *image.Processor) *CertificateService {
	return &CertificateService{
		renderer:  renderer,
		processor: processor,
	}
}

// Render renders a single certificate and encodes it in the output format.
func (s *CertificateService) Render(assets domain.Assets, opts domain.Options, name string) ([]byte, error) {
	img, err := s.renderer.Render(domain.RenderRequest{Assets: assets, Name: name, Options: opts})
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := s.processor.Encode(buf, img, opts); err != nil {
		return nil, &domain.RenderError{Name: name, Err: fmt.Errorf("encode: %w", err)}
	}
	return buf.Bytes(), nil
}

// Preview renders name and returns a PNG scaled down to opts.PreviewWidth.
func (s *CertificateService) Preview(assets domain.Assets, opts domain.Options, name string) ([]byte, error) {
	if err := checkBatch(assets, opts); err != nil {
		return nil, err
	}

	img, err := s.renderer.Render(domain.RenderRequest{Assets: assets, Name: name, Options: opts})
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := s.processor.EncodePreview(buf, img, opts.PreviewWidth); err != nil {
		return nil, &domain.RenderError{Name: name, Err: err}
	}
	return buf.Bytes(), nil
}

// Generate renders one certificate per name, in order, and writes them to w
// as a ZIP archive. By default the first failing name aborts the batch and
// nothing is written; with opts.ContinueOnError failing names are skipped
// and listed in the report. Template, font and color errors always abort.
// An empty list yields an empty archive.
func (s *CertificateService) Generate(ctx context.Context, names []string, assets domain.Assets, opts domain.Options, w io.Writer) (Report, error) {
	report := Report{BatchID: xid.New().String()}

	if err := checkBatch(assets, opts); err != nil {
		return report, err
	}

	logging.Info("Batch started", "batch", report.BatchID, "names", len(names))

	archive := files.NewArchive(opts.OnCollision)
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("batch %s stopped at entry %d: %w", report.BatchID, i, err)
		}

		data, err := s.Render(assets, opts, name)
		if err != nil {
			var decodeErr *domain.DecodeError
			if !opts.ContinueOnError || errors.As(err, &decodeErr) {
				return report, fmt.Errorf("entry %d: %w", i+1, err)
			}
			logging.Warn("Skipping entry", "batch", report.BatchID, "index", i, "name", name, "error", err)
			report.Skipped = append(report.Skipped, EntryError{Index: i, Name: name, Err: err})
			continue
		}

		filename := files.Filename(name, opts.Extension())
		entry, err := archive.Add(filename, data)
		if err != nil {
			return report, fmt.Errorf("entry %d (%q): %w", i+1, name, err)
		}
		if entry != filename {
			logging.Debug("Renamed colliding entry", "batch", report.BatchID, "name", name, "entry", entry)
		}
	}

	if _, err := archive.WriteTo(w); err != nil {
		return report, fmt.Errorf("write archive: %w", err)
	}
	report.Entries = archive.Names()

	logging.Info("Batch finished",
		"batch", report.BatchID,
		"entries", len(report.Entries),
		"skipped", len(report.Skipped),
	)
	return report, nil
}

// checkBatch rejects problems shared by every name before any rendering.
func checkBatch(assets domain.Assets, opts domain.Options) error {
	if err := assets.Validate(); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, err := image.ParseColor(opts.Color); err != nil {
		return &domain.RenderError{Err: fmt.Errorf("font color: %w", err)}
	}
	return nil
}
