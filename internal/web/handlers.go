package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marquee/internal/filters"
	"marquee/internal/logging"
	"marquee/internal/recommend"
	"marquee/internal/services"
)

type recommendForm struct {
	Prompt  string   `form:"prompt" binding:"max=1000"`
	Genres  []string `form:"genre" binding:"max=8"`
	Decade  string   `form:"decade"`
	Critics bool     `form:"critics"`
	Adult   bool     `form:"adult"`
}

type recommendRequest struct {
	Prompt       string   `json:"prompt" binding:"max=1000"`
	Genres       []string `json:"genres" binding:"max=8"`
	Decade       string   `json:"decade"`
	CriticsOnly  bool     `json:"critics_only"`
	IncludeAdult bool     `json:"include_adult"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	page := s.newPage(c.Request.Context(), recommendForm{})
	c.HTML(http.StatusOK, "index.html", page)
}

func (s *Server) handleRecommendForm(c *gin.Context) {
	var form recommendForm
	if err := c.ShouldBind(&form); err != nil {
		err = s.bindError(c, "form", err)
		page := s.newPage(c.Request.Context(), form)
		page.Error = recommend.UserMessage(err)
		c.HTML(statusFor(err), "index.html", page)
		return
	}

	page := s.newPage(c.Request.Context(), form)
	outcome, err := s.svc.Recommend(c.Request.Context(), recommend.Request{
		Prompt: form.Prompt,
		Manual: recommend.ManualFilters(form.Genres, form.Decade, form.Critics, form.Adult),
	})
	if err != nil {
		page.Error = recommend.UserMessage(err)
		c.HTML(statusFor(err), "index.html", page)
		return
	}
	page.Outcome = &outcome
	c.HTML(http.StatusOK, "index.html", page)
}

func (s *Server) handleRecommendAPI(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		err = s.bindError(c, "json", err)
		c.JSON(statusFor(err), errorResponse{Error: recommend.UserMessage(err)})
		return
	}
	outcome, err := s.svc.Recommend(c.Request.Context(), recommend.Request{
		Prompt: req.Prompt,
		Manual: recommend.ManualFilters(req.Genres, req.Decade, req.CriticsOnly, req.IncludeAdult),
	})
	if err != nil {
		c.JSON(statusFor(err), errorResponse{Error: recommend.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) bindError(c *gin.Context, kind string, err error) error {
	err = services.Wrap(services.ErrValidation, "web", "bind", kind+" request", err)
	logging.WarnWithContext(logging.WithContext(c.Request.Context(), s.logger), "request rejected", "request_invalid",
		logging.Error(err),
		logging.String(logging.FieldImpact, "no search was run"),
		logging.String(logging.FieldErrorHint, "check the request fields against their limits"),
	)
	return err
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrEmptyPrompt), errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrQuery):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) newPage(ctx context.Context, form recommendForm) *pageData {
	genres, err := s.svc.Genres(ctx)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "genre list unavailable", "genre_list_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "manual genre control is empty"),
			logging.String(logging.FieldErrorHint, "check tmdb.api_key and connectivity"),
		)
	}
	return &pageData{
		Form:    form,
		Genres:  genres,
		Decades: filters.DecadeOptions,
	}
}
