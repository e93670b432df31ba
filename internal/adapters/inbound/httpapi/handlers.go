package httpapi

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/zzptax/zzptax/internal/application"
	"github.com/zzptax/zzptax/internal/domain"
)

type ibanRequest struct {
	IBAN string `json:"iban"`
}

type categorizeRequest struct {
	Description string `json:"description"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Years    []int  `json:"years"`
	Revision string `json:"revision,omitempty"`
}

var knownRoutes = map[string]bool{
	"/api/iban/validate": true,
	"/api/btw":           true,
	"/api/btw/extract":   true,
	"/api/income-tax":    true,
	"/api/mileage":       true,
	"/api/categorize":    true,
	"/api/tables":        true,
	"/healthz":           true,
	"/metrics":           true,
}

// routeLabel keeps metric cardinality bounded.
func routeLabel(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())

	switch path {
	case "/healthz":
		if requireMethod(ctx, fasthttp.MethodGet) {
			writeJSON(ctx, fasthttp.StatusOK, healthResponse{Status: "ok", Years: s.svc.SupportedYears(), Revision: s.svc.Revision()})
		}
	case "/metrics":
		if requireMethod(ctx, fasthttp.MethodGet) {
			s.metricsHandler(ctx)
		}
	case "/api/tables":
		if requireMethod(ctx, fasthttp.MethodGet) {
			s.handleTables(ctx)
		}
	case "/api/iban/validate":
		if requireMethod(ctx, fasthttp.MethodPost) {
			s.handleIBAN(ctx)
		}
	case "/api/btw":
		if requireMethod(ctx, fasthttp.MethodPost) {
			s.handleBTW(ctx)
		}
	case "/api/btw/extract":
		if requireMethod(ctx, fasthttp.MethodPost) {
			s.handleExtract(ctx)
		}
	case "/api/income-tax":
		if requireMethod(ctx, fasthttp.MethodPost) {
			s.handleIncomeTax(ctx)
		}
	case "/api/mileage":
		if requireMethod(ctx, fasthttp.MethodPost) {
			s.handleMileage(ctx)
		}
	case "/api/categorize":
		if requireMethod(ctx, fasthttp.MethodPost) {
			s.handleCategorize(ctx)
		}
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found: "+path)
	}
}

func requireMethod(ctx *fasthttp.RequestCtx, method string) bool {
	if string(ctx.Method()) == method {
		return true
	}
	ctx.Response.Header.Set("Allow", method)
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decode reads a JSON body into v and answers 400 itself on failure.
func decode(ctx *fasthttp.RequestCtx, v any) bool {
	body := ctx.PostBody()
	if len(body) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "request body is required")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleIBAN(ctx *fasthttp.RequestCtx) {
	var req ibanRequest
	if !decode(ctx, &req) {
		return
	}
	report := s.svc.CheckIBAN(req.IBAN)
	s.metrics.calculations.WithLabelValues(string(domain.KindIBAN), outcomeOK).Inc()
	writeJSON(ctx, fasthttp.StatusOK, report)
}

func (s *Server) handleBTW(ctx *fasthttp.RequestCtx) {
	var req application.BTWRequest
	if !decode(ctx, &req) {
		return
	}
	report, err := s.svc.BTWDue(req)
	s.respond(ctx, domain.KindBTW, report, err)
}

func (s *Server) handleExtract(ctx *fasthttp.RequestCtx) {
	var req application.GrossRequest
	if !decode(ctx, &req) {
		return
	}
	report, err := s.svc.VATFromGross(req)
	s.respond(ctx, domain.KindVATExtract, report, err)
}

func (s *Server) handleIncomeTax(ctx *fasthttp.RequestCtx) {
	var req application.IncomeTaxRequest
	if !decode(ctx, &req) {
		return
	}
	report, err := s.svc.IncomeTax(req)
	s.respond(ctx, domain.KindIncomeTax, report, err)
}

func (s *Server) handleMileage(ctx *fasthttp.RequestCtx) {
	var req application.MileageRequest
	if !decode(ctx, &req) {
		return
	}
	report, err := s.svc.Mileage(req)
	s.respond(ctx, domain.KindMileage, report, err)
}

func (s *Server) handleCategorize(ctx *fasthttp.RequestCtx) {
	var req categorizeRequest
	if !decode(ctx, &req) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeErrorResponse(ctx, errorResponse(&domain.ValidationError{Field: "description", Reason: "is required"}))
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, s.svc.Categorize(req.Description))
}

func (s *Server) handleTables(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, s.svc.Tables())
}

// respond writes a calculation result or its mapped error and counts it.
func (s *Server) respond(ctx *fasthttp.RequestCtx, kind domain.CalculationKind, report any, err error) {
	if err == nil {
		s.metrics.calculations.WithLabelValues(string(kind), outcomeOK).Inc()
		writeJSON(ctx, fasthttp.StatusOK, report)
		return
	}

	resp := errorResponse(err)
	if resp.Status == fasthttp.StatusInternalServerError {
		s.metrics.calculations.WithLabelValues(string(kind), outcomeError).Inc()
		s.logger.Error("calculation failed", "kind", kind, "error", err)
	} else {
		s.metrics.calculations.WithLabelValues(string(kind), outcomeRejected).Inc()
		s.logger.Debug("calculation rejected", "kind", kind, "error", err, "validation", errors.Is(err, domain.ErrMalformedInput))
	}
	writeErrorResponse(ctx, resp)
}
