package controllers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"plantao/internal/models"
	"plantao/internal/providers"
	"plantao/internal/services"
	"plantao/internal/store"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const (
	errBodyNotJSON  = "body must be JSON"
	errInvalidJSON  = "invalid JSON"
	errBodyTooLarge = "body too large"
)

type ApiController struct {
	logger  providers.Logger
	service services.PlantaoServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.PlantaoServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func recordCacheKey(v store.FileVersion) string {
	return "record:" + strconv.FormatInt(v.ModTime.UnixNano(), 10) + ":" + strconv.FormatInt(v.Size, 10) + ":" + strconv.FormatUint(v.Sum, 16)
}

// GetRecord serves the normalized record. Responses are cached per file
// version; the version is taken before the read so a concurrent change can
// only land under a key that is already stale.
func (ac *ApiController) GetRecord(w http.ResponseWriter, r *http.Request) {
	version, exists := ac.service.RecordVersion()
	cacheKey := ""
	if exists {
		cacheKey = recordCacheKey(version)
		if data, ok := ac.cache.Get(cacheKey); ok {
			providers.WriteJSON(w, http.StatusOK, data)
			return
		}
	}

	rec := ac.service.ReadRecord()
	gson, err := json.Marshal(rec)
	if err != nil {
		ac.logger.Errorf(providers.TypeRead, "Encode record: %s", err)
		providers.WriteJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if _, warned := rec.Warning(); cacheKey != "" && !warned {
		ac.cache.Set(cacheKey, gson)
	}
	providers.WriteJSON(w, http.StatusOK, gson)
}

// PutRecord stores the request body as the new record.
func (ac *ApiController) PutRecord(w http.ResponseWriter, r *http.Request) {
	body, ok := ac.decodeBody(w, r)
	if !ok {
		return
	}
	ac.respondWrite(w, func() (models.Record, error) {
		return ac.service.WriteRecord(body)
	})
}

// ReplaceRecord is the POST alias of PutRecord for clients that cannot PUT.
func (ac *ApiController) ReplaceRecord(w http.ResponseWriter, r *http.Request) {
	ac.PutRecord(w, r)
}

func (ac *ApiController) ResetRecord(w http.ResponseWriter, r *http.Request) {
	ac.respondWrite(w, ac.service.ResetRecord)
}

func (ac *ApiController) respondWrite(w http.ResponseWriter, write func() (models.Record, error)) {
	rec, err := write()
	ac.cache.Clear()
	if err != nil {
		ac.logger.Errorf(providers.TypeWrite, "Write record: %s", err)
		providers.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	gson, err := json.Marshal(rec)
	if err != nil {
		ac.logger.Errorf(providers.TypeWrite, "Encode record: %s", err)
		providers.WriteJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	providers.WriteJSON(w, http.StatusOK, gson)
}

// decodeBody reads one JSON value from the request. It answers the request
// itself and returns false when the body is not usable.
func (ac *ApiController) decodeBody(w http.ResponseWriter, r *http.Request) (any, bool) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		providers.WriteJSONError(w, http.StatusBadRequest, errBodyNotJSON)
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			providers.WriteJSONError(w, http.StatusRequestEntityTooLarge, errBodyTooLarge)
			return nil, false
		}
		providers.WriteJSONError(w, http.StatusBadRequest, errInvalidJSON)
		return nil, false
	}

	body, err := store.DecodeValue(data)
	if err != nil || body == nil {
		ac.logger.Debugf(providers.TypeWrite, "Rejected body from %s: %v", r.RemoteAddr, err)
		providers.WriteJSONError(w, http.StatusBadRequest, errInvalidJSON)
		return nil, false
	}
	return body, true
}

// isJSONContentType accepts application/json and application/*+json.
func isJSONContentType(value string) bool {
	if value == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	if mediaType == "application/json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}
