package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quiz-royale/internal/db"
)

type questionCreateRequest struct {
	Prompt       string   `json:"prompt" binding:"required,min=3,max=512"`
	Correct      string   `json:"correct" binding:"required,max=256"`
	WrongAnswers []string `json:"wrong_answers" binding:"required,min=1,max=9,dive,required"`
}

var questionCreateMessages = bindMessages{
	"Prompt": {
		"required": "prompt is required",
		"min":      "prompt is too short",
		"max":      "prompt is too long",
	},
	"Correct": {
		"required": "correct answer is required",
		"max":      "correct answer is too long",
	},
	"WrongAnswers": {
		"required": "at least one wrong answer is required",
		"min":      "at least one wrong answer is required",
		"max":      "at most nine wrong answers are allowed",
	},
}

type questionResponse struct {
	ID           uint     `json:"id"`
	Prompt       string   `json:"prompt"`
	Correct      string   `json:"correct"`
	WrongAnswers []string `json:"wrong_answers"`
}

func toQuestionResponse(q db.Question) questionResponse {
	return questionResponse{
		ID:           q.ID,
		Prompt:       q.Prompt,
		Correct:      q.CorrectAnswer,
		WrongAnswers: q.Alternatives(),
	}
}

func (s *Server) handleQuestionsList(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	search := strings.TrimSpace(c.Query("search"))
	questions, err := db.ListQuestions(s.db, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load questions"})
		return
	}
	out := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, toQuestionResponse(q))
	}
	c.JSON(http.StatusOK, gin.H{"questions": out})
}

func (s *Server) handleQuestionCreate(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var req questionCreateRequest
	if !bindJSON(c, &req, questionCreateMessages, "invalid question") {
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	req.Correct = strings.TrimSpace(req.Correct)
	alternatives := make([]string, 0, len(req.WrongAnswers))
	for _, alt := range req.WrongAnswers {
		alt = strings.TrimSpace(alt)
		if alt == "" || alt == req.Correct {
			continue
		}
		alternatives = append(alternatives, alt)
	}
	if len(alternatives) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one wrong answer distinct from the correct one is required"})
		return
	}
	question, err := db.CreateQuestion(s.db, req.Prompt, req.Correct, alternatives)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save question"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"question": toQuestionResponse(question)})
}

type questionURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

func (s *Server) handleQuestionDelete(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri questionURI
	if !bindURI(c, &uri) {
		return
	}
	if err := db.DeleteQuestion(s.db, uri.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete question"})
		return
	}
	c.Status(http.StatusNoContent)
}
