package mixcloudtest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jaki95/mixcloud/internal/domain"
	"github.com/jaki95/mixcloud/internal/form"
)

// File is an uploaded file part.
type File struct {
	Filename string
	Content  []byte
}

// Upload is a received upload request.
type Upload struct {
	Fields map[string]string
	Files  map[string]File
}

// Cloudcast rebuilds the uploaded cloudcast as user would publish it.
func (u *Upload) Cloudcast(user domain.User) (*domain.Cloudcast, error) {
	name := u.Fields[form.FieldName]
	if name == "" {
		return nil, errors.New("missing name")
	}
	key := domain.Slugify(name)
	if key == "" {
		return nil, fmt.Errorf("name %q has no letters or digits", name)
	}
	if _, ok := u.Files[form.FieldAudio]; !ok {
		return nil, fmt.Errorf("missing %s file", form.FieldAudio)
	}

	sections, tags, err := form.Decode(u.Fields)
	if err != nil {
		return nil, err
	}
	return domain.NewCloudcast(domain.CloudcastInfo{
		Key:         key,
		Name:        name,
		Sections:    sections,
		Tags:        tags,
		Description: u.Fields[form.FieldDescription],
		User:        user,
	}), nil
}

func readUpload(r *http.Request) (*Upload, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	upload := &Upload{
		Fields: make(map[string]string, len(r.MultipartForm.Value)),
		Files:  make(map[string]File, len(r.MultipartForm.File)),
	}
	for key, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			upload.Fields[key] = values[0]
		}
	}
	for key, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		file, err := headers[0].Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}
		upload.Files[key] = File{Filename: headers[0].Filename, Content: content}
	}
	return upload, nil
}
