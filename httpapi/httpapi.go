// Package httpapi is the single HTTP adapter over the shortener. It owns
// argument parsing, status codes, and error shaping; the core stays free of
// transport concerns.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/sixlink"
)

// maxBodyBytes caps request bodies; link payloads are tiny.
const maxBodyBytes = 16 << 10

// ttlVocabulary maps the wire TTL names to durations. "never" maps to
// sixlink.Never.
var ttlVocabulary = map[string]time.Duration{
	"1h":    time.Hour,
	"1d":    24 * time.Hour,
	"1w":    7 * 24 * time.Hour,
	"never": sixlink.Never,
}

// defaultTTLName is applied when a create request omits ttl.
const defaultTTLName = "1d"

type Config struct {
	// BaseURL is the public origin short URLs are built on,
	// e.g. "https://sixl.ink". Required.
	BaseURL string
	// Logger defaults to the logrus standard logger.
	Logger *log.Logger
}

type handler struct {
	sh   sixlink.Shortener
	base string
	log  *log.Logger
}

// New mounts the API on a chi router:
//
//	POST   /api/v1/links         create
//	GET    /api/v1/links/{code}  details
//	DELETE /api/v1/links/{code}  delete (requires deletion_token)
//	GET    /{code}               redirect
//	GET    /healthz              liveness + store probe
func New(sh sixlink.Shortener, cfg Config) (http.Handler, error) {
	if sh == nil {
		return nil, errors.New("httpapi: shortener is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("httpapi: base URL is required")
	}
	h := &handler{
		sh:   sh,
		base: strings.TrimRight(cfg.BaseURL, "/"),
		log:  cfg.Logger,
	}
	if h.log == nil {
		h.log = log.StandardLogger()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID, // Set Request Id on all requests
		middleware.RealIP,    // Extract actual IP if running behind reverse proxy
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/links", h.createLink)
		r.Get("/links/{code}", h.getLink)
		r.Delete("/links/{code}", h.deleteLink)
	})
	r.Get("/healthz", h.health)
	r.Get("/{code}", h.redirect)

	return r, nil
}

type createRequest struct {
	LongURL string `json:"long_url"`
	TTL     string `json:"ttl"`
}

type linkResponse struct {
	ShortURL      string     `json:"short_url"`
	Code          string     `json:"code"`
	LongURL       string     `json:"long_url"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     *time.Time `json:"expires_at"` // null => never
	DeletionToken string     `json:"deletion_token,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *handler) createLink(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	ttlName := req.TTL
	if ttlName == "" {
		ttlName = defaultTTLName
	}
	ttl, ok := ttlVocabulary[ttlName]
	if !ok {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown ttl %q", req.TTL))
		return
	}

	link, deletionToken, err := h.sh.Shorten(r.Context(), req.LongURL, ttl)
	if err != nil {
		h.writeShortenerError(w, r, err)
		return
	}

	resp := h.linkResponse(link)
	resp.DeletionToken = deletionToken

	w.Header().Set("Location", h.base+"/api/v1/links/"+link.Code)
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *handler) getLink(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	link, err := h.sh.Resolve(r.Context(), code)
	if err != nil {
		h.writeShortenerError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.linkResponse(link))
}

type deleteRequest struct {
	DeletionToken string `json:"deletion_token"`
}

func (h *handler) deleteLink(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	if req.DeletionToken == "" {
		h.writeError(w, http.StatusBadRequest, "deletion_token is required")
		return
	}
	code := chi.URLParam(r, "code")
	if err := h.sh.Delete(r.Context(), code, req.DeletionToken); err != nil {
		h.writeShortenerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	link, err := h.sh.Resolve(r.Context(), code)
	if err != nil {
		h.writeShortenerError(w, r, err)
		return
	}
	http.Redirect(w, r, link.LongURL, http.StatusFound)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	// probe the store through a resolve of a syntactically valid code
	_, err := h.sh.Resolve(r.Context(), "1")
	if err != nil && !errors.Is(err, sixlink.ErrNotFound) && !errors.Is(err, sixlink.ErrExpired) {
		h.log.WithError(err).Error("health probe failed")
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) linkResponse(link sixlink.Link) linkResponse {
	resp := linkResponse{
		ShortURL:  h.base + "/" + link.Code,
		Code:      link.Code,
		LongURL:   link.LongURL,
		CreatedAt: link.CreatedAt,
	}
	if !link.ExpiresAt.IsZero() {
		exp := link.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}

// writeShortenerError translates core errors into transport ones. Anything
// unrecognized is a 500 and gets logged with its request id.
func (h *handler) writeShortenerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sixlink.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "short link not found")
	case errors.Is(err, sixlink.ErrExpired):
		h.writeError(w, http.StatusGone, "short link has expired")
	case errors.Is(err, sixlink.ErrInvalidURL):
		h.writeError(w, http.StatusBadRequest, "invalid URL")
	case errors.Is(err, sixlink.ErrWriteRejected):
		h.writeError(w, http.StatusServiceUnavailable, "temporarily unable to create links")
	default:
		h.log.WithError(err).WithField("request_id", middleware.GetReqID(r.Context())).
			Error("internal error")
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *handler) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("response encode failed")
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, errorResponse{Detail: detail})
}
