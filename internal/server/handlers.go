package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/lifeofword/internal/fetch"
	"github.com/jonathan/lifeofword/internal/plan"
	"github.com/jonathan/lifeofword/internal/reader"
	"github.com/jonathan/lifeofword/internal/schedule"
	"github.com/jonathan/lifeofword/internal/types"
)

// handleESV forwards a passage query upstream and relays the response as-is.
func (s *Server) handleESV(w http.ResponseWriter, r *http.Request) {
	if s.apiKey == "" {
		s.errorResponse(w, http.StatusInternalServerError, "ESV_API_KEY not configured")
		return
	}

	query := types.PassageQuery{Q: r.URL.Query().Get("q")}
	if err := query.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	target := s.upstreamURL
	if strings.Contains(target, "?") {
		target += "&" + r.URL.RawQuery
	} else {
		target += "?" + r.URL.RawQuery
	}

	opts := fetch.DefaultOptions()
	opts.Client = s.upstream
	opts.Headers = map[string]string{"Authorization": "Token " + s.apiKey}

	result, err := fetch.URL(r.Context(), target, opts)
	if result == nil {
		s.logger.Error("upstream request failed", "error", err, "request_id", RequestID(r.Context()))
		s.errorResponse(w, http.StatusBadGateway, "Failed to reach ESV API")
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(result.StatusCode)
	_, _ = w.Write(result.Body)
}

// readingRequest is the query of the reading endpoints.
type readingRequest struct {
	Reference string `validate:"required,max=100"`
	Index     int    `validate:"gte=0"`
}

func parseReadingRequest(r *http.Request, withIndex bool) (readingRequest, error) {
	req := readingRequest{Reference: strings.TrimSpace(r.URL.Query().Get("reference"))}
	if withIndex {
		raw := r.URL.Query().Get("index")
		if raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return req, &ErrValidation{Field: "index", Message: "must be an integer"}
			}
			req.Index = n
		}
	}
	if err := validator.New().Struct(req); err != nil {
		return req, &ErrValidation{Field: fieldOf(err), Message: validationMessage(err)}
	}
	return req, nil
}

// buildPlan loads the corpus and builds a plan for the reference.
func (s *Server) buildPlan(ctx context.Context, reference string) (*types.ReadingPlan, *reader.Assembler, error) {
	if s.loader == nil {
		return nil, nil, &ErrCorpusUnavailable{}
	}
	index, err := s.loader.Index(ctx)
	if err != nil {
		return nil, nil, err
	}
	p, err := plan.Build(reference, index)
	if err != nil {
		return nil, nil, err
	}
	return p, reader.NewAssembler(s.fetcher, index, s.logger), nil
}

// handlePlan returns the reading plan for ?reference=
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	req, err := parseReadingRequest(r, false)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	p, _, err := s.buildPlan(r.Context(), req.Reference)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

// handleSegment returns one assembled segment for ?reference=&index=
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	req, err := parseReadingRequest(r, true)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	p, assembler, err := s.buildPlan(r.Context(), req.Reference)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := assembler.Assemble(r.Context(), p, req.Index)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"index":   req.Index,
		"total":   len(p.Segments),
		"segment": result,
	})
}

// handleReadStream streams every segment of a reading as SSE "segment"
// events in plan order, followed by "complete".
func (s *Server) handleReadStream(w http.ResponseWriter, r *http.Request) {
	req, err := parseReadingRequest(r, false)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	p, assembler, err := s.buildPlan(r.Context(), req.Reference)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := sse.WritePlan(p); err != nil {
		s.logger.Warn("error writing SSE event", "error", err)
		return
	}

	for i := range p.Segments {
		result, err := assembler.Assemble(r.Context(), p, i)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				sse.WriteError(err.Error())
			}
			return
		}
		event := reader.ProgressEvent{Index: i, Total: len(p.Segments), Result: result}
		if err := sse.WriteSegment(event); err != nil {
			s.logger.Warn("error writing SSE event", "error", err)
			return
		}
	}

	sse.WriteComplete(p.Reference, len(p.Segments))
}

// handleSchedule returns the whole reading program.
func (s *Server) handleSchedule(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"weekdays": schedule.Weekdays,
		"weeks":    schedule.Weeks(),
	})
}

// handleScheduleWeek returns one week by name or number.
func (s *Server) handleScheduleWeek(w http.ResponseWriter, r *http.Request) {
	week, ok := schedule.Lookup(r.PathValue("week"))
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "unknown week: "+r.PathValue("week"))
		return
	}
	s.jsonResponse(w, http.StatusOK, week)
}

func fieldOf(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return strings.ToLower(verrs[0].Field())
	}
	return ""
}

// validationMessage flattens validator errors into one line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "max":
			parts = append(parts, field+" is too long")
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
