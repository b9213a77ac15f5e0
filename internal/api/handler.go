package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/momo-score/internal/logger"
	"github.com/insightdelivered/momo-score/internal/models"
	"github.com/insightdelivered/momo-score/internal/parser"
	"github.com/insightdelivered/momo-score/internal/scoring"
	"github.com/insightdelivered/momo-score/internal/source"
	"github.com/insightdelivered/momo-score/internal/writer"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

func init() {
	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// AnalyzeRequest is the body of /api/analyze and /api/extract.
type AnalyzeRequest struct {
	Messages []string `json:"messages"`
	Period   string   `json:"period,omitempty"`
	// Now pins the evaluation instant; the server clock is used when omitted.
	Now *time.Time `json:"now,omitempty"`
}

// AnalyzeResponse is the JSON response from the analyze and extract endpoints.
type AnalyzeResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	BatchID      string               `json:"batchId,omitempty"`
	Score        *models.ScoreSummary `json:"score,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
	Unclassified int                  `json:"unclassified"`
	CSV          string               `json:"csv,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Parser        *parser.Parser
	Engine        *scoring.Engine
	DefaultPeriod models.Period
	Log           zerolog.Logger
}

// NewHandler returns a handler with the default parser, a wall-clock engine
// and month as the default period.
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		Parser:        parser.New(),
		Engine:        scoring.NewEngine(),
		DefaultPeriod: models.PeriodMonth,
		Log:           log,
	}
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/extract", h.HandleExtract)
	app.Post("/api/analyze", h.HandleAnalyze)
	app.Post("/api/upload", h.HandleUpload)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  "fiber",
	})
}

// HandleExtract parses a batch of messages without scoring it.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	req, err := decodeRequest(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	txns := h.Parser.ParseAll(req.Messages)
	return c.JSON(AnalyzeResponse{
		Success:      true,
		Transactions: txns,
		Count:        len(txns),
		Unclassified: countUnclassified(txns),
	})
}

// HandleAnalyze parses a batch of messages and scores it over the requested period.
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	req, err := decodeRequest(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	resp, status, err := h.analyze(c, req.Messages, req.Period, req.Now)
	if err != nil {
		return writeError(c, status, err.Error())
	}
	return c.JSON(resp)
}

// HandleUpload scores an exported inbox sent as multipart field "file"
// (.txt, .json or .pdf). Optional form values: "period", "now" (RFC3339)
// and "header" ("false" drops the summary rows from the returned CSV).
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	var now *time.Time
	if raw := c.FormValue("now"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("invalid now %q: expected RFC3339", raw))
		}
		now = &ts
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	tmp, err := os.CreateTemp("", "messages-*"+ext)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fh, tmpPath); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	messages, err := source.ReadMessages(tmpPath)
	switch {
	case errors.Is(err, source.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusBadRequest, "Only .txt, .json and .pdf files are supported.")
	case errors.Is(err, source.ErrNoMessages):
		messages = []string{}
	case err != nil:
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Reading %s failed: %v", fh.Filename, err))
	}

	resp, status, err := h.analyze(c, messages, c.FormValue("period"), now)
	if err != nil {
		return writeError(c, status, err.Error())
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
	if err := csvWriter.Write(&csvBuf, &writer.Report{Transactions: resp.Transactions, Summary: *resp.Score}); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}
	resp.CSV = csvBuf.String()

	return c.JSON(resp)
}

// analyze parses and scores one batch. On error it also returns the HTTP
// status to answer with.
func (h *Handler) analyze(c *fiber.Ctx, messages []string, periodText string, now *time.Time) (AnalyzeResponse, int, error) {
	period := h.DefaultPeriod
	if periodText != "" {
		var err error
		if period, err = models.ParsePeriod(periodText); err != nil {
			return AnalyzeResponse{}, fiber.StatusBadRequest, err
		}
	}

	txns := h.Parser.ParseAll(messages)

	var (
		summary models.ScoreSummary
		err     error
	)
	if now != nil {
		summary, err = scoring.Score(txns, period, *now)
	} else {
		summary, err = h.Engine.Score(txns, period)
	}
	if err != nil {
		if errors.Is(err, models.ErrInvalidPeriod) {
			return AnalyzeResponse{}, fiber.StatusBadRequest, err
		}
		return AnalyzeResponse{}, fiber.StatusInternalServerError, err
	}

	resp := AnalyzeResponse{
		Success:      true,
		BatchID:      uuid.NewString(),
		Score:        &summary,
		Transactions: txns,
		Count:        len(txns),
		Unclassified: countUnclassified(txns),
	}

	log := logger.FromContext(c.UserContext())
	log.Info().
		Str("batch_id", resp.BatchID).
		Str("period", string(period)).
		Int("count", resp.Count).
		Int("unclassified", resp.Unclassified).
		Int("score", summary.Score).
		Msg("batch analyzed")

	return resp, fiber.StatusOK, nil
}

func decodeRequest(c *fiber.Ctx) (AnalyzeRequest, error) {
	var req AnalyzeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return AnalyzeRequest{}, fmt.Errorf("invalid JSON body: %v", err)
	}
	if req.Messages == nil {
		return AnalyzeRequest{}, errors.New(`"messages" is required`)
	}
	return req, nil
}

func countUnclassified(txns []models.Transaction) int {
	n := 0
	for _, txn := range txns {
		if !txn.IsClassified() {
			n++
		}
	}
	return n
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(AnalyzeResponse{
		Success: false,
		Error:   msg,
	})
}
