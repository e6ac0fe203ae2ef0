package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fahrezi93/hoax-detection/internal/usecase"
)

// FeedbackSubmitted is the data of a stored feedback
type FeedbackSubmitted struct {
	Message    string `json:"message"`
	FeedbackID uint   `json:"feedback_id"`
}

// FeedbackListResponse is the data of a feedback listing
type FeedbackListResponse struct {
	Feedback []*usecase.FeedbackOutput `json:"feedback"`
	Total    int                       `json:"total"`
}

// FeedbackHandler handles feedback HTTP requests
type FeedbackHandler struct {
	feedbackUC usecase.FeedbackUsecase
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackUC usecase.FeedbackUsecase) *FeedbackHandler {
	return &FeedbackHandler{feedbackUC: feedbackUC}
}

// Submit handles POST /api/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var input usecase.SubmitFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, usecase.MsgFeedbackRequired)
		return
	}

	id, err := h.feedbackUC.Submit(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, &FeedbackSubmitted{
		Message:    "Feedback submitted successfully",
		FeedbackID: id,
	})
}

// List handles GET /api/feedback
func (h *FeedbackHandler) List(c *gin.Context) {
	feedback, err := h.feedbackUC.List(c.Request.Context(), ParseLimit(c))
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, &FeedbackListResponse{
		Feedback: feedback,
		Total:    len(feedback),
	})
}
