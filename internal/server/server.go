package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-sim/internal/cache"
	"github.com/iwvelando/mortgage-sim/internal/config"
	"github.com/iwvelando/mortgage-sim/internal/metrics"
	"github.com/iwvelando/mortgage-sim/internal/report"
	"github.com/iwvelando/mortgage-sim/internal/simulation"
	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"github.com/iwvelando/mortgage-sim/pkg/output"
	"github.com/iwvelando/mortgage-sim/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	runner        *simulation.Runner
	cache         cache.Repository
	cacheTTL      time.Duration
}

// NewHandler constructs the HTTP handler that serves the simulation API. A
// nil store disables result caching.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, store cache.Repository, cacheTTL time.Duration) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		runner:        simulation.NewRunner(logger),
		cache:         store,
		cacheTTL:      cacheTTL,
	}

	mux := http.NewServeMux()

	// Simulation endpoint (JSON body or YAML upload)
	mux.HandleFunc("/api/simulate", h.handleSimulate)

	// Config serialization endpoint for downloads
	mux.HandleFunc("/api/export", h.handleConfigExport)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	mux.HandleFunc("/health", h.handleHealth)

	return mux
}

type simulateResponse struct {
	RunID               string                     `json:"runId"`
	Variant             string                     `json:"variant"`
	Terms               simulation.LoanTerms       `json:"terms"`
	PayoffMonth         int                        `json:"payoffMonth"`
	Yearly              []simulation.YearRecord    `json:"yearly"`
	MortgageMetrics     metrics.Set                `json:"mortgageMetrics"`
	InvestmentMetrics   metrics.Set                `json:"investmentMetrics"`
	Comparison          []simulation.ComparisonRow `json:"comparison,omitempty"`
	ExtraPaymentMetrics metrics.Set                `json:"extraPaymentMetrics,omitempty"`
	Warnings            []string                   `json:"warnings,omitempty"`
	CSV                 string                     `json:"csv"`
	ConfigYAML          string                     `json:"configYaml,omitempty"`
	Cached              bool                       `json:"cached"`
	Duration            string                     `json:"duration"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	var (
		configBytes []byte
		opts        report.Options
		err         error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		configBytes, opts, err = h.readUpload(w, r)
	} else {
		configBytes, opts, err = h.readJSON(r)
	}
	if err != nil {
		// readUpload and readJSON have already chosen the status
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			h.respondErrorWithOp(w, reqErr.status, reqErr.Error(), "server.handleSimulate")
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleSimulate")
		return
	}

	h.runSimulation(r.Context(), w, configBytes, opts, start)
}

type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func (h *handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, report.Options, error) {
	var opts report.Options
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, opts, &requestError{status: http.StatusRequestEntityTooLarge,
				msg: fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize)}
		}
		return nil, opts, fmt.Errorf("failed to parse upload: %v", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, opts, errors.New("missing configuration file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.readUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, opts, &requestError{status: http.StatusInternalServerError,
			msg: fmt.Sprintf("failed to read configuration: %v", err)}
	}

	opts.Compare = coerceBool(r.FormValue("compare"))
	opts.ExtraPayments = coerceBool(r.FormValue("extraPayments"))
	return buf.Bytes(), opts, nil
}

func (h *handler) readJSON(r *http.Request) ([]byte, report.Options, error) {
	var opts report.Options

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, opts, &requestError{status: http.StatusRequestEntityTooLarge,
				msg: fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize)}
		}
		return nil, opts, fmt.Errorf("failed to decode configuration: %v", err)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			return nil, opts, errors.New("invalid config payload: expected object")
		}
		configPayload = cfgMap
	}

	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			return nil, opts, errors.New("invalid options payload: expected object")
		}
		opts.Compare = coerceBool(optsMap["compare"])
		opts.ExtraPayments = coerceBool(optsMap["extraPayments"])
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		return nil, opts, fmt.Errorf("failed to encode configuration: %v", err)
	}
	return configBytes, opts, nil
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "simulation"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runSimulation(ctx context.Context, w http.ResponseWriter, configBytes []byte, opts report.Options, start time.Time) {
	const op = "server.runSimulation"

	conf, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := conf.Validate(); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	warnings := conf.ValidateConfiguration()
	cfg := conf.Simulation.Normalize()

	key := h.cacheKey(cfg, opts)
	if cached, ok := h.cachedResponse(ctx, key); ok {
		cached.Cached = true
		cached.Duration = time.Since(start).String()
		h.logger.Info("simulation served from cache",
			zap.String("op", op),
			zap.String("run_id", cached.RunID),
			zap.String("variant", cached.Variant),
		)
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	rep, err := report.Build(ctx, h.logger, h.runner, cfg, opts)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}

	exported, err := yaml.Marshal(conf)
	if err != nil {
		h.logger.Warn("failed to marshal configuration",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	response := simulateResponse{
		RunID:               rep.Result.RunID,
		Variant:             opts.Variant(),
		Terms:               rep.Result.Terms,
		PayoffMonth:         rep.Result.PayoffMonth,
		Yearly:              rep.Result.Yearly,
		MortgageMetrics:     rep.MortgageMetrics,
		InvestmentMetrics:   rep.InvestmentMetrics,
		ExtraPaymentMetrics: rep.ExtraPaymentMetrics,
		Warnings:            warnings,
		CSV:                 output.CsvString(rep.Result.Yearly),
		ConfigYAML:          string(exported),
	}
	if rep.Comparison != nil {
		response.Comparison = rep.Comparison.Rows
	}

	h.storeResponse(ctx, key, response)

	elapsed := time.Since(start)
	response.Duration = elapsed.String()

	h.logger.Info("simulation computed",
		zap.String("op", op),
		zap.String("run_id", response.RunID),
		zap.String("variant", response.Variant),
		zap.Int("years", len(response.Yearly)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) cacheKey(cfg simulation.Config, opts report.Options) string {
	if h.cache == nil {
		return ""
	}
	key, err := cache.Key(cfg, opts.Variant())
	if err != nil {
		h.logger.Warn("failed to derive cache key",
			zap.String("op", "server.cacheKey"),
			zap.Error(err),
		)
		return ""
	}
	return key
}

func (h *handler) cachedResponse(ctx context.Context, key string) (simulateResponse, bool) {
	var resp simulateResponse
	if key == "" {
		return resp, false
	}
	data, ok := h.cache.Get(ctx, key)
	if !ok {
		return resp, false
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		h.logger.Warn("discarding unreadable cache entry",
			zap.String("op", "server.cachedResponse"),
			zap.String("key", key),
			zap.Error(err),
		)
		return simulateResponse{}, false
	}
	return resp, true
}

func (h *handler) storeResponse(ctx context.Context, key string, resp simulateResponse) {
	if key == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err == nil {
		err = h.cache.Set(ctx, key, data, h.cacheTTL)
	}
	if err != nil {
		h.logger.Warn("failed to cache simulation",
			zap.String("op", "server.storeResponse"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// respondFailure maps configuration errors to 400 with per-field details and
// everything else to 500.
func (h *handler) respondFailure(w http.ResponseWriter, err error, op string) {
	var errs validation.ConfigErrors
	if errors.As(err, &errs) {
		h.logRequestFailure(http.StatusBadRequest, err.Error(), op)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Fields: errs.Fields()})
		return
	}
	var cfgErr *validation.ConfigError
	if errors.As(err, &cfgErr) {
		h.logRequestFailure(http.StatusBadRequest, err.Error(), op)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  err.Error(),
			Fields: map[string]string{cfgErr.Field: cfgErr.Constraint},
		})
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to run simulation: %v", err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logRequestFailure(status, msg, op)
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) logRequestFailure(status int, msg string, op string) {
	h.logger.Error("simulation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
