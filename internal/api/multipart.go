package api

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/errors"
)

// Upload is a file sent as one multipart part.
type Upload struct {
	Name   string // filename reported to the backend
	Reader io.Reader
}

// OpenUpload opens a local image for upload. The caller closes the file.
func OpenUpload(path string) (*Upload, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrValidation,
			fmt.Sprintf("Can't open image %s", path),
			"Pass the path to a readable JPEG or PNG file")
	}
	return &Upload{Name: filepath.Base(path), Reader: f}, f, nil
}

// form collects multipart fields and files for one submission.
type form struct {
	fields map[string]string
	files  map[string]*Upload
}

func newForm() *form {
	return &form{fields: map[string]string{}, files: map[string]*Upload{}}
}

func (f *form) field(name, value string) {
	f.fields[name] = value
}

// file adds up under field. A nil upload is skipped.
func (f *form) file(field string, up *Upload) {
	if up == nil || up.Reader == nil {
		return
	}
	f.files[field] = up
}

// apply writes the form onto req as multipart/form-data.
func (f *form) apply(req *resty.Request) {
	req.SetMultipartFormData(f.fields)
	for field, up := range f.files {
		name := up.Name
		if name == "" {
			name = field + ".jpg"
		}
		req.SetFileReader(field, name, up.Reader)
	}
}

// monitorForm encodes the fields the backend reads on create and update.
func monitorForm(in domain.MonitorInput, ideal *Upload) *form {
	f := newForm()
	f.field("name", in.Name)
	f.field("type", string(in.Type))
	f.field("source", in.Source)
	f.field("rule", in.Rule)
	f.field("integrations", strings.Join(in.Integrations, ","))
	f.field("connection_url", in.ConnectionURL)
	f.field("interval", domain.FormatInterval(in.Interval))
	f.file("ideal_image", ideal)
	return f
}
