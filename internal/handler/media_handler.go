package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediastore/internal/domain"
	"mediastore/internal/service"
)

const (
	maxUploadMemory = 100 << 20 // 100MB лимит для multipart-формы в памяти
	defaultMIMEType = "application/octet-stream"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload обрабатывает загрузку файла из multipart-поля "file"
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "No file"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "No file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Upload failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: "Upload failed"})
		return
	}

	filename, err := h.mediaService.Upload(r.Context(), &domain.MediaUpload{
		OriginalName: header.Filename,
		MIMEType:     header.Header.Get("Content-Type"),
		Data:         data,
	})
	if err != nil {
		log.Printf("Upload failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: "Upload failed"})
		return
	}

	writeJSON(w, http.StatusOK, domain.UploadResponse{Success: true, File: filename})
}

// ListFiles возвращает имена всех файлов, новые первыми
func (h *MediaHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	filenames, err := h.mediaService.ListFilenames(r.Context())
	if err != nil {
		log.Printf("Fetch list failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: "Failed to fetch files"})
		return
	}

	writeJSON(w, http.StatusOK, filenames)
}

// ServeFile отдаёт содержимое файла с сохранённым MIME-типом
func (h *MediaHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	media, err := h.mediaService.GetByFilename(r.Context(), filename)
	if err != nil {
		if errors.Is(err, domain.ErrMediaNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		log.Printf("Fetch file failed: %v", err)
		http.Error(w, "Error fetching file", http.StatusInternalServerError)
		return
	}

	mimeType := media.MIMEType
	if mimeType == "" {
		mimeType = defaultMIMEType
	}

	w.Header().Set("Content-Type", mimeType)
	if _, err := w.Write(media.FileData); err != nil {
		log.Printf("Failed to write file data: %v", err)
	}
}

// DeleteFile удаляет файл по имени; повторное удаление отвечает 404
func (h *MediaHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	if err := h.mediaService.Delete(r.Context(), filename); err != nil {
		if errors.Is(err, domain.ErrMediaNotFound) {
			writeJSON(w, http.StatusNotFound, domain.ErrorResponse{Error: "File not found"})
			return
		}
		log.Printf("Delete failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: "Delete failed"})
		return
	}

	writeJSON(w, http.StatusOK, domain.DeleteResponse{Success: true})
}

func (h *MediaHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("MediaStore backend with PostgreSQL is running"))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
