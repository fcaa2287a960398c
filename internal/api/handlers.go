package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"certinator/internal/domain"
	"certinator/internal/names"
)

type upload struct {
	assets domain.Assets
	names  []string
	opts   domain.Options
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// previewHandler renders the first name of the uploaded list as a PNG.
func (s *Server) previewHandler(c *gin.Context) {
	u, err := s.readUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	data, err := s.service.Preview(u.assets, u.opts, u.names[0])
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// certificatesHandler renders every name and returns the ZIP archive.
func (s *Server) certificatesHandler(c *gin.Context) {
	u, err := s.readUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	buf := new(bytes.Buffer)
	report, err := s.service.Generate(c.Request.Context(), u.names, u.assets, u.opts, buf)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.names.ArchiveName))
	c.Header("X-Certificates", strconv.Itoa(len(report.Entries)))
	c.Header("X-Certificates-Skipped", strconv.Itoa(len(report.Skipped)))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// readUpload validates the whole request before anything is decoded: the
// names list and options first, then the presence of template and font.
func (s *Server) readUpload(c *gin.Context) (upload, error) {
	if s.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes)
	}

	var u upload

	namesFile, err := s.formFile(c, "names", "names list")
	if err != nil {
		return u, err
	}
	namesData, err := readFormFile(namesFile)
	if err != nil {
		return u, &domain.ValidationError{Input: "names list", Err: err}
	}
	u.names, err = names.Load(bytes.NewReader(namesData), s.names.Column)
	if err != nil {
		return u, err
	}

	u.opts, err = s.options(c)
	if err != nil {
		return u, err
	}

	for _, part := range []struct {
		field string
		dst   *domain.Source
	}{
		{domain.SourceTemplate, &u.assets.Template},
		{domain.SourceFont, &u.assets.Font},
	} {
		fh, err := s.formFile(c, part.field, part.field)
		if err != nil {
			return u, err
		}
		data, err := readFormFile(fh)
		if err != nil {
			return u, &domain.ValidationError{Input: part.field, Err: err}
		}
		*part.dst = domain.NewSource(fh.Filename, data)
	}

	return u, nil
}

// options overlays form fields on the configured defaults.
func (s *Server) options(c *gin.Context) (domain.Options, error) {
	opts := s.defaults

	ints := []struct {
		field string
		dst   *int
	}{
		{"y_coordinate", &opts.Y},
		{"font_size", &opts.FontSize},
		{"extra_spaces", &opts.Spacing},
		{"jpeg_quality", &opts.JPEGQuality},
		{"preview_width", &opts.PreviewWidth},
	}
	for _, f := range ints {
		v, ok := c.GetPostForm(f.field)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, &domain.ValidationError{
				Input: "options",
				Err:   fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidOptions, f.field, v),
			}
		}
		*f.dst = n
	}

	strs := []struct {
		field string
		dst   *string
	}{
		{"font_color", &opts.Color},
		{"vertical_anchor", &opts.VerticalAnchor},
		{"output_format", &opts.OutputFormat},
		{"on_collision", &opts.OnCollision},
		{"qr_content", &opts.QR.Content},
	}
	for _, f := range strs {
		if v, ok := c.GetPostForm(f.field); ok && v != "" {
			*f.dst = v
		}
	}

	if v, ok := c.GetPostForm("continue_on_error"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, &domain.ValidationError{
				Input: "options",
				Err:   fmt.Errorf("%w: continue_on_error must be a boolean, got %q", domain.ErrInvalidOptions, v),
			}
		}
		opts.ContinueOnError = b
	}

	return opts, opts.Validate()
}

func (s *Server) formFile(c *gin.Context, field, input string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if err == nil {
		return fh, nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, &domain.ValidationError{
			Input: "upload",
			Err:   fmt.Errorf("request body exceeds the %d byte limit", tooLarge.Limit),
		}
	}
	return nil, &domain.ValidationError{Input: input, Err: fmt.Errorf("missing form file %q", field)}
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var ve *domain.ValidationError
	var de *domain.DecodeError
	var re *domain.RenderError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &de), errors.As(err, &re):
		status = http.StatusUnprocessableEntity
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"stage":   domain.Stage(err),
			"message": err.Error(),
		},
	})
}
