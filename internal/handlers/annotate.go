package handlers

import (
  "encoding/json"
  "errors"
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/requestdata"
  "github.com/yungbote/roft-backend/internal/services"
)

type AnnotateHandler struct {
  log         *logger.Logger
  assignments services.AssignmentService
  annotations services.AnnotationService
  progress    services.ProgressService
}

func NewAnnotateHandler(
  log *logger.Logger,
  assignments services.AssignmentService,
  annotations services.AnnotationService,
  progress services.ProgressService,
) *AnnotateHandler {
  return &AnnotateHandler{
    log:         log.With("handler", "AnnotateHandler"),
    assignments: assignments,
    annotations: annotations,
    progress:    progress,
  }
}

// Annotate serves the next trial for the user, honoring the optional
// playlist filter and the qid review bypass.
func (h *AnnotateHandler) Annotate(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())

  playlistID, err := strconv.Atoi(c.DefaultQuery("playlist", "-1"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid playlist id"})
    return
  }
  qid := -1
  if rawQID := c.Query("qid"); rawQID != "" {
    qid, err = strconv.Atoi(rawQID)
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid qid"})
      return
    }
  }

  assignment, err := h.assignments.Next(c.Request.Context(), rd.UserID, playlistID, qid)
  if err != nil {
    if errors.Is(err, services.ErrNoExamples) {
      c.JSON(http.StatusNotFound, gin.H{"error": "no examples available"})
      return
    }
    if errors.Is(err, services.ErrNotFound) {
      c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
      return
    }
    h.log.Error("Failed to select assignment", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
    return
  }

  remaining, rErr := h.progress.Remaining(c.Request.Context(), rd.UserID)
  if rErr != nil {
    h.log.Warn("Failed to read batch progress", "error", rErr)
  }

  sentences, mErr := json.Marshal(assignment.Sentences)
  if mErr != nil {
    h.log.Error("Failed to encode sentences", "error", mErr)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
    return
  }

  attentionCheck := 0
  if assignment.AttentionCheck {
    attentionCheck = 1
  }

  c.JSON(http.StatusOK, gin.H{
    "remaining":         remaining,
    "prompt":            assignment.PromptText,
    "text_id":           assignment.TextID,
    "sentences":         string(sentences),
    "name":              assignment.Username,
    "max_sentences":     assignment.MaxSentences,
    "boundary":          assignment.Boundary,
    "num_annotations":   assignment.NumAnnotations,
    "annotation":        assignment.PriorBoundary,
    "attention_check":   attentionCheck,
    "playlist":          assignment.PlaylistID,
    "fluency_reasons":   assignment.FluencyReasons,
    "substance_reasons": assignment.SubstanceReasons,
  })
}

// Save records a submitted boundary judgment.
func (h *AnnotateHandler) Save(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())

  generationID, err := strconv.Atoi(c.PostForm("text"))
  if err != nil || generationID < 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid text id"})
    return
  }
  boundary, err := strconv.Atoi(c.PostForm("boundary"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid boundary"})
    return
  }
  points, err := strconv.Atoi(c.PostForm("points"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid points"})
    return
  }

  shortnames, err := h.annotations.DefaultShortnames(c.Request.Context())
  if err != nil {
    h.log.Error("Failed to list feedback options", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
    return
  }
  flags := make(map[string]bool, len(shortnames))
  for _, shortname := range shortnames {
    flags[shortname] = isTruthy(c.PostForm(shortname))
  }

  req := services.SaveRequest{
    GenerationID:   uint(generationID),
    Boundary:       boundary,
    Points:         points,
    AttentionCheck: isTruthy(c.PostForm("attention_check")),
    Flags:          flags,
    OtherReason:    c.PostForm("other_reason"),
  }

  if _, err := h.annotations.Save(c.Request.Context(), rd.UserID, req); err != nil {
    if errors.Is(err, services.ErrNotFound) {
      c.JSON(http.StatusNotFound, gin.H{"error": "no such generation"})
      return
    }
    h.log.Error("Failed to save annotation", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"status": 200})
}

func isTruthy(value string) bool {
  switch value {
  case "true", "True", "1":
    return true
  }
  return false
}
