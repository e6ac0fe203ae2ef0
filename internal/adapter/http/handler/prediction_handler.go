package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/usecase"
)

const (
	displayTextLimit = 200
	maxUploadBytes   = 10 << 20
	textColumn       = "text"
)

// Batch upload errors
var (
	errNoFile       = errors.New("No file provided")
	errNoFilename   = errors.New("No file selected")
	errNotCSV       = errors.New("Only CSV files are supported")
	errNoTextColumn = errors.New(`CSV must contain a "text" column`)
)

// PredictRequest is the body of POST /api/predict
type PredictRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// PredictionDetail is the classification part of a prediction response
type PredictionDetail struct {
	Label         entity.Label       `json:"label"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// PredictResponse is the data of a successful prediction
type PredictResponse struct {
	RequestID      uuid.UUID        `json:"request_id"`
	InputText      string           `json:"input_text"`
	ProcessedText  string           `json:"processed_text"`
	Prediction     PredictionDetail `json:"prediction"`
	Keywords       []string         `json:"keywords"`
	Rationale      string           `json:"rationale"`
	ProcessingTime float64          `json:"processing_time"`
}

// BatchResponse is the data of a batch prediction
type BatchResponse struct {
	Message string                `json:"message"`
	Results []*usecase.BatchEntry `json:"results"`
}

// HistoryResponse is the data of a history listing
type HistoryResponse struct {
	History []*usecase.HistoryEntry `json:"history"`
	Total   int                     `json:"total"`
}

// PredictionHandler handles prediction-related HTTP requests
type PredictionHandler struct {
	predictionUC usecase.PredictionUsecase
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionUC usecase.PredictionUsecase) *PredictionHandler {
	return &PredictionHandler{predictionUC: predictionUC}
}

// Predict handles POST /api/predict
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleInvalidRequest(c, "No data provided")
		return
	}

	result, err := h.predictionUC.Predict(c.Request.Context(), &usecase.PredictInput{
		Text:      req.Text,
		URL:       req.URL,
		RequestID: c.GetString("request_id"),
	})
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, toPredictResponse(result))
}

func toPredictResponse(r *entity.PredictionResult) *PredictResponse {
	probs := make(map[string]float64, len(r.Probabilities))
	for label, p := range r.Probabilities {
		probs[label.String()] = p
	}
	return &PredictResponse{
		RequestID:     r.RequestID,
		InputText:     entity.Truncate(r.InputText, displayTextLimit),
		ProcessedText: entity.Truncate(r.ProcessedText, displayTextLimit),
		Prediction: PredictionDetail{
			Label:         r.Label,
			Confidence:    r.Confidence,
			Probabilities: probs,
		},
		Keywords:       r.Keywords,
		Rationale:      r.Rationale,
		ProcessingTime: r.ProcessingSeconds(),
	}
}

// Batch handles POST /api/batch with a multipart CSV upload in field "file"
func (h *PredictionHandler) Batch(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	texts, err := readBatchTexts(c)
	if err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	results := h.predictionUC.PredictBatch(c.Request.Context(), texts)
	respondSuccess(c, http.StatusOK, &BatchResponse{
		Message: fmt.Sprintf("Processed %d rows", len(texts)),
		Results: results,
	})
}

func readBatchTexts(c *gin.Context) ([]string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, errNoFile
	}
	if header.Filename == "" {
		return nil, errNoFilename
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		return nil, errNotCSV
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("Failed to read file: %w", err)
	}
	defer f.Close()

	return parseTextColumn(f)
}

// parseTextColumn returns the "text" column of a CSV with a header row
func parseTextColumn(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errNoTextColumn
	}
	if err != nil {
		return nil, fmt.Errorf("Invalid CSV file: %w", err)
	}

	col := -1
	for i, name := range head {
		name = strings.TrimPrefix(name, "\ufeff")
		if strings.TrimSpace(name) == textColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errNoTextColumn
	}

	texts := make([]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Invalid CSV file: %w", err)
		}
		if col < len(record) {
			texts = append(texts, record[col])
		} else {
			texts = append(texts, "")
		}
	}
	return texts, nil
}

// History handles GET /api/history
func (h *PredictionHandler) History(c *gin.Context) {
	history, err := h.predictionUC.History(c.Request.Context(), ParseLimit(c))
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, &HistoryResponse{
		History: history,
		Total:   len(history),
	})
}

// Stats handles GET /api/stats
func (h *PredictionHandler) Stats(c *gin.Context) {
	stats, err := h.predictionUC.Stats(c.Request.Context())
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, stats)
}
