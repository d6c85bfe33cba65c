package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/masjid-annur/dashboard-server-go/internal/config"
	apperrors "github.com/masjid-annur/dashboard-server-go/internal/errors"
	"github.com/masjid-annur/dashboard-server-go/internal/service"
	"github.com/masjid-annur/dashboard-server-go/internal/upload"
)

// AdminHandler serves the authenticated management API: admin accounts,
// kajian schedule, artwork upload, and the stats overview.
type AdminHandler struct {
	adminService      *service.AdminService
	kajianService     *service.KajianService
	statsService      *service.StatsService
	uploader          upload.Uploader
	sessionMiddleware func(http.Handler) http.Handler
}

func NewAdminHandler(
	adminService *service.AdminService,
	kajianService *service.KajianService,
	statsService *service.StatsService,
	uploader upload.Uploader,
	sessionMiddleware func(http.Handler) http.Handler,
) *AdminHandler {
	return &AdminHandler{
		adminService:      adminService,
		kajianService:     kajianService,
		statsService:      statsService,
		uploader:          uploader,
		sessionMiddleware: sessionMiddleware,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.sessionMiddleware)

	r.Get("/api/stats", h.Stats)

	r.Get("/api/admins", h.ListAdmins)
	r.Post("/api/admins", h.CreateAdmin)
	r.Put("/api/admins/{id}", h.UpdateAdmin)
	r.Delete("/api/admins/{id}", h.DeleteAdmin)

	r.Get("/api/kajian", h.ListKajian)
	r.Post("/api/kajian", h.CreateKajian)
	r.Put("/api/kajian/{id}", h.UpdateKajian)
	r.Delete("/api/kajian/{id}", h.DeleteKajian)

	r.Post("/api/upload", h.UploadArtwork)

	return r
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Overview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admins)
}

func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var form service.AdminForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	admin, err := h.adminService.Add(r.Context(), form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, admin)
}

func (h *AdminHandler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var form service.AdminUpdateForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	admin, err := h.adminService.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admin)
}

func (h *AdminHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListKajian(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.kajianService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *AdminHandler) CreateKajian(w http.ResponseWriter, r *http.Request) {
	var form service.KajianForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	kajian, err := h.kajianService.Add(r.Context(), form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, kajian)
}

func (h *AdminHandler) UpdateKajian(w http.ResponseWriter, r *http.Request) {
	var form service.KajianForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	kajian, err := h.kajianService.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kajian)
}

func (h *AdminHandler) DeleteKajian(w http.ResponseWriter, r *http.Request) {
	if err := h.kajianService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UploadArtwork accepts a multipart form with an "image" file and returns
// the stored object's public URL.
func (h *AdminHandler) UploadArtwork(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, apperrors.Internal("Artwork upload is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		writeError(w, apperrors.InvalidInput("image", "file exceeds the upload size limit"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperrors.MissingRequired("image"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		writeError(w, apperrors.InvalidInput("image", "must be a JPEG, PNG, or WebP image"))
		return
	}

	url, err := h.uploader.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		writeError(w, apperrors.External("object storage", err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
