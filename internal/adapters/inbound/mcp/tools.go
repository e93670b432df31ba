package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shopspring/decimal"

	"github.com/zzptax/zzptax/internal/application"
	"github.com/zzptax/zzptax/internal/domain"
)

// registerTools registers all zzptax MCP tools on the given server.
func registerTools(s *server.MCPServer, svc *application.CalcService, logger *slog.Logger) {
	// 1. zzptax_validate_iban
	s.AddTool(
		mcplib.NewTool("zzptax_validate_iban",
			mcplib.WithDescription("Validates a Dutch IBAN (MOD-97 checksum) and returns the formatted IBAN and bank"),
			mcplib.WithString("iban",
				mcplib.Required(),
				mcplib.Description("IBAN as typed by the user; spaces and lower case are accepted"),
			),
		),
		handleValidateIBAN(svc),
	)

	// 2. zzptax_btw_due
	s.AddTool(
		mcplib.NewTool("zzptax_btw_due",
			mcplib.WithDescription("Computes output VAT, input VAT and the net BTW due for a period"),
			mcplib.WithString("sales_net", mcplib.Required(), mcplib.Description("Net revenue excluding VAT, e.g. 50000 or € 50.000,00")),
			mcplib.WithString("purchases_net", mcplib.Required(), mcplib.Description("Net deductible purchases excluding VAT")),
			mcplib.WithNumber("rate", mcplib.Required(), mcplib.Description("VAT rate in percent: 0, 9 or 21")),
		),
		handleBTWDue(svc, logger),
	)

	// 3. zzptax_vat_from_gross
	s.AddTool(
		mcplib.NewTool("zzptax_vat_from_gross",
			mcplib.WithDescription("Extracts the VAT contained in a gross (VAT-inclusive) amount"),
			mcplib.WithString("gross", mcplib.Required(), mcplib.Description("Gross amount including VAT")),
			mcplib.WithNumber("rate", mcplib.Required(), mcplib.Description("VAT rate in percent: 0, 9 or 21")),
		),
		handleVATFromGross(svc, logger),
	)

	// 4. zzptax_income_tax
	s.AddTool(
		mcplib.NewTool("zzptax_income_tax",
			mcplib.WithDescription("Computes progressive income tax and capped social contributions for a tax year"),
			mcplib.WithString("taxable_income", mcplib.Required(), mcplib.Description("Taxable profit for the year")),
			mcplib.WithNumber("year", mcplib.Required(), mcplib.Description("Tax year, e.g. 2025")),
		),
		handleIncomeTax(svc, logger),
	)

	// 5. zzptax_mileage
	s.AddTool(
		mcplib.NewTool("zzptax_mileage",
			mcplib.WithDescription("Computes the deduction for business kilometres driven with a private car"),
			mcplib.WithString("distance_km", mcplib.Required(), mcplib.Description("Distance of the trip in km")),
			mcplib.WithNumber("year", mcplib.Required(), mcplib.Description("Tax year of the trip")),
			mcplib.WithString("annual_km", mcplib.Description("Total business km this year including the trip")),
		),
		handleMileage(svc, logger),
	)

	// 6. zzptax_categorize
	s.AddTool(
		mcplib.NewTool("zzptax_categorize",
			mcplib.WithDescription("Suggests an expense category for a bank-transaction description"),
			mcplib.WithString("description", mcplib.Required(), mcplib.Description("Transaction description as shown on the bank statement")),
		),
		handleCategorize(svc),
	)
}

func handleValidateIBAN(svc *application.CalcService) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		raw, err := request.RequireString("iban")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(svc.CheckIBAN(raw))
	}
}

func handleBTWDue(svc *application.CalcService, logger *slog.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		sales, err := request.RequireString("sales_net")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		purchases, err := request.RequireString("purchases_net")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		rate, err := requireRate(request)
		if err != nil {
			return calcError(logger, "zzptax_btw_due", err), nil
		}

		report, err := svc.BTWDue(application.BTWRequest{Sales: sales, Purchases: purchases, Rate: rate})
		if err != nil {
			return calcError(logger, "zzptax_btw_due", err), nil
		}
		return jsonResult(report)
	}
}

func handleVATFromGross(svc *application.CalcService, logger *slog.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		gross, err := request.RequireString("gross")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		rate, err := requireRate(request)
		if err != nil {
			return calcError(logger, "zzptax_vat_from_gross", err), nil
		}

		report, err := svc.VATFromGross(application.GrossRequest{Gross: gross, Rate: rate})
		if err != nil {
			return calcError(logger, "zzptax_vat_from_gross", err), nil
		}
		return jsonResult(report)
	}
}

func handleIncomeTax(svc *application.CalcService, logger *slog.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		income, err := request.RequireString("taxable_income")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		year, err := requireYear(request)
		if err != nil {
			return calcError(logger, "zzptax_income_tax", err), nil
		}

		report, err := svc.IncomeTax(application.IncomeTaxRequest{Income: income, Year: year})
		if err != nil {
			return calcError(logger, "zzptax_income_tax", err), nil
		}
		return jsonResult(report)
	}
}

func handleMileage(svc *application.CalcService, logger *slog.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		distance, err := request.RequireString("distance_km")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		year, err := requireYear(request)
		if err != nil {
			return calcError(logger, "zzptax_mileage", err), nil
		}
		annual, _ := request.GetArguments()["annual_km"].(string)

		report, err := svc.Mileage(application.MileageRequest{DistanceKm: distance, Year: year, AnnualKm: annual})
		if err != nil {
			return calcError(logger, "zzptax_mileage", err), nil
		}
		return jsonResult(report)
	}
}

func handleCategorize(svc *application.CalcService) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		description, err := request.RequireString("description")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(svc.Categorize(description))
	}
}

// requireWhole reads a numeric argument. JSON numbers arrive as float64;
// a fraction is rejected rather than truncated.
func requireWhole(request mcplib.CallToolRequest, key string) (int, float64, error) {
	v, err := request.RequireFloat(key)
	if err != nil {
		return 0, 0, &domain.ValidationError{Field: key, Reason: err.Error()}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, v, &domain.ValidationError{Field: key, Reason: "out of range"}
	}
	if math.Trunc(v) != v {
		return 0, v, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("%v is not a whole number", v)}
	}
	return int(v), v, nil
}

func requireRate(request mcplib.CallToolRequest) (*int, error) {
	percent, raw, err := requireWhole(request, "rate")
	if err != nil {
		if raw != 0 && !math.IsNaN(raw) && !math.IsInf(raw, 0) {
			return nil, &domain.InvalidRateError{Rate: decimal.NewFromFloat(raw)}
		}
		return nil, err
	}
	return application.RatePercent(percent), nil
}

func requireYear(request mcplib.CallToolRequest) (int, error) {
	year, _, err := requireWhole(request, "year")
	return year, err
}

// calcError turns an engine error into a tool error. Rejected input is
// logged at debug level; anything else is unexpected.
func calcError(logger *slog.Logger, tool string, err error) *mcplib.CallToolResult {
	switch {
	case errors.Is(err, domain.ErrMalformedInput), errors.Is(err, domain.ErrInvalidRate), errors.Is(err, domain.ErrUnsupportedYear):
		logger.Debug("tool input rejected", "tool", tool, "error", err)
	default:
		logger.Error("tool failed", "tool", tool, "error", err)
	}
	return errorResult(err.Error())
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
