package handler

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/catalog"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/metrics"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/repository"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/service"
)

// Max 12MB per multipart upload; only the part headers are kept.
const maxUploadBytes = 12 << 20

type FormHandler struct {
	repo       *repository.FormRepo
	newSession func() *service.FormSession
	tokens     Tokens
	log        *zap.Logger
}

func NewFormHandler(repo *repository.FormRepo, newSession func() *service.FormSession, tokens Tokens, log *zap.Logger) *FormHandler {
	return &FormHandler{repo: repo, newSession: newSession, tokens: tokens, log: log}
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.newSession()
	token, err := h.tokens.issue(s.ID(), metrics.KindForm)
	if err != nil {
		s.Close()
		writeServiceError(w, h.log, err)
		return
	}
	view, err := s.View()
	if err != nil {
		s.Close()
		writeServiceError(w, h.log, err)
		return
	}
	h.repo.Add(s)
	writeJSON(w, http.StatusCreated, map[string]any{"session": view, "token": token})
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeView(w, s, http.StatusOK)
}

func (h *FormHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	c, err := catalog.ParseCategory(req.Category)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.SelectCategory(c); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	h.writeView(w, s, http.StatusOK)
}

// AttachDocument binds a file to a document label. The file is either a
// multipart "file" part or a JSON description; its contents are never read.
func (h *FormHandler) AttachDocument(w http.ResponseWriter, r *http.Request) {
	label, ok := documentLabel(w, r)
	if !ok {
		return
	}
	ref, err := fileRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Attach(label, ref); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	h.writeView(w, s, http.StatusOK)
}

func (h *FormHandler) DetachDocument(w http.ResponseWriter, r *http.Request) {
	label, ok := documentLabel(w, r)
	if !ok {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Attach(label, nil); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	h.writeView(w, s, http.StatusOK)
}

func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Submit(); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	h.writeView(w, s, http.StatusAccepted)
}

func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	if err := h.repo.Remove(id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *FormHandler) session(w http.ResponseWriter, r *http.Request) (*service.FormSession, bool) {
	s, err := h.repo.Get(chi.URLParam(r, "formId"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return nil, false
	}
	return s, true
}

func (h *FormHandler) writeView(w http.ResponseWriter, s *service.FormSession, status int) {
	view, err := s.View()
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, status, view)
}

func documentLabel(w http.ResponseWriter, r *http.Request) (models.DocumentLabel, bool) {
	label := chi.URLParam(r, "label")
	if strings.TrimSpace(label) == "" {
		writeError(w, http.StatusBadRequest, "document label is required")
		return "", false
	}
	return models.DocumentLabel(label), true
}

func fileRef(r *http.Request) (*models.FileRef, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, errors.New("invalid multipart body")
		}
		defer r.MultipartForm.RemoveAll()
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("file is required")
		}
		file.Close()
		return newFileRef(header.Filename, header.Header.Get("Content-Type"), header.Size), nil
	}

	var req struct {
		FileName    string `json:"fileName"`
		ContentType string `json:"contentType"`
		Size        int64  `json:"size"`
	}
	if err := readJSON(r, &req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if req.FileName == "" {
		return nil, errors.New("fileName is required")
	}
	if req.Size < 0 {
		return nil, errors.New("size must not be negative")
	}
	return newFileRef(req.FileName, req.ContentType, req.Size), nil
}

func newFileRef(name, contentType string, size int64) *models.FileRef {
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = detectContentType(name)
	}
	return &models.FileRef{
		ID:          uuid.NewString(),
		FileName:    filepath.Base(name),
		ContentType: contentType,
		Size:        size,
	}
}

func detectContentType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	types := map[string]string{
		".pdf":  "application/pdf",
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".doc":  "application/msword",
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".xls":  "application/vnd.ms-excel",
		".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		".csv":  "text/csv",
		".txt":  "text/plain",
		".zip":  "application/zip",
	}
	if ct, ok := types[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
