package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"uimage/internal/storage"
)

// ImageNameHeader carries the stored name of each uploaded file.
const ImageNameHeader = "X-Image-Name"

const uploadField = "file"

// formPart is one multipart section read into memory.
type formPart struct {
	name        string
	contentType string
	data        []byte
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) error {
	page, err := s.store.Index()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		var buf bytes.Buffer
		if err := s.tmpl.ExecuteTemplate(&buf, "index.html", nil); err != nil {
			return reject(ErrIO, err)
		}
		page = buf.Bytes()
	case err != nil:
		return reject(ErrIO, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
	return nil
}

// upload stores every part named "file". All parts are read and checked
// before anything is written, so a rejected request leaves no files behind.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) error {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		return reject(ErrPayloadTooLarge, errors.Errorf("content length %d", r.ContentLength))
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	parts, err := readParts(r)
	if err != nil {
		return err
	}

	type pending struct {
		ext  string
		data []byte
	}
	var files []pending
	for _, p := range parts {
		if p.name != uploadField {
			continue
		}
		ext, err := storage.ExtensionFor(p.contentType)
		if err != nil {
			s.log.Warn("refusing upload", "content_type", p.contentType, "err", err)
			return reject(ErrValidation, err)
		}
		files = append(files, pending{ext: ext, data: p.data})
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		name, err := s.store.Save(f.ext, f.data)
		if err != nil {
			return reject(ErrIO, err)
		}
		sum, _ := storage.Checksum(bytes.NewReader(f.data))
		s.log.Info("created file", "name", name, "bytes", len(f.data), "sha256", fmt.Sprintf("%x", sum[:8]))
		names = append(names, name)
	}

	for _, name := range names {
		w.Header().Add(ImageNameHeader, name)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "Success")
	return nil
}

// readParts collects the whole form in order.
func readParts(r *http.Request) ([]formPart, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, reject(ErrParse, err)
	}

	var parts []formPart
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, classifyReadError(ErrParse, err)
		}

		data, err := io.ReadAll(p)
		p.Close()
		if err != nil {
			return nil, classifyReadError(ErrIO, errors.Wrapf(err, "reading part %q", p.FormName()))
		}
		parts = append(parts, formPart{
			name:        p.FormName(),
			contentType: p.Header.Get("Content-Type"),
			data:        data,
		})
	}
	return parts, nil
}

func classifyReadError(class, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return reject(ErrPayloadTooLarge, err)
	}
	return reject(class, err)
}

func (s *Server) raw(w http.ResponseWriter, r *http.Request) error {
	f, info, err := s.store.OpenFile(strings.TrimPrefix(r.URL.Path, rawPrefix))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return reject(ErrNotFound, err)
		}
		return reject(ErrIO, err)
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return nil
}

// image wraps an id into a page; whether the file exists is left to the client.
func (s *Server) image(w http.ResponseWriter, r *http.Request) error {
	data := struct{ Src string }{Src: rawPrefix + mux.Vars(r)["id"]}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "image.html", data); err != nil {
		return reject(ErrIO, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
	return nil
}
