package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpadapter "github.com/zzptax/zzptax/internal/adapters/inbound/mcp"
	"github.com/zzptax/zzptax/internal/adapters/outbound/history"
	"github.com/zzptax/zzptax/internal/application"
	"github.com/zzptax/zzptax/internal/domain"
)

func newServer(t *testing.T) *server.MCPServer {
	t.Helper()
	svc := application.NewCalcService(domain.DefaultTaxConfig(), nil, "", "")
	s := mcpadapter.NewZZPTaxMCPServer(svc, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NotNil(t, s)
	return s
}

type toolResponse struct {
	Result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()
	params, err := json.Marshal(map[string]any{"name": name, "arguments": args})
	require.NoError(t, err)

	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":%s}`, params)
	resp := s.HandleMessage(context.Background(), json.RawMessage(msg))

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var out toolResponse
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotEmpty(t, out.Result.Content, string(data))
	return out.Result.Content[0].Text, out.Result.IsError
}

func TestMCPServerHasTools(t *testing.T) {
	tools := newServer(t).ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"zzptax_validate_iban",
		"zzptax_btw_due",
		"zzptax_vat_from_gross",
		"zzptax_income_tax",
		"zzptax_mileage",
		"zzptax_categorize",
	}

	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}

	assert.Len(t, tools, len(expectedTools), "should have exactly %d tools", len(expectedTools))
}

func TestTool_ValidateIBAN(t *testing.T) {
	text, isErr := callTool(t, newServer(t), "zzptax_validate_iban", map[string]any{"iban": "nl91 abna 0417 1643 00"})
	assert.False(t, isErr)
	assert.Contains(t, text, `"valid": true`)
	assert.Contains(t, text, `"bank": "ABN AMRO"`)
}

func TestTool_BTWDue(t *testing.T) {
	text, isErr := callTool(t, newServer(t), "zzptax_btw_due", map[string]any{
		"sales_net": "50000", "purchases_net": "12000", "rate": 21,
	})
	assert.False(t, isErr)
	assert.Contains(t, text, `"net_vat_due": "7980.00"`)
}

func TestTool_BTWDue_InvalidRate(t *testing.T) {
	text, isErr := callTool(t, newServer(t), "zzptax_btw_due", map[string]any{
		"sales_net": "100", "purchases_net": "0", "rate": 19,
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid vat rate")
}

func TestTool_RejectsFractionalRate(t *testing.T) {
	s := newServer(t)

	text, isErr := callTool(t, s, "zzptax_btw_due", map[string]any{
		"sales_net": "50000", "purchases_net": "12000", "rate": 21.7,
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid vat rate 21.7%")

	text, isErr = callTool(t, s, "zzptax_vat_from_gross", map[string]any{"gross": "121", "rate": 9.5})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid vat rate 9.5%")
}

func TestTool_AcceptsWholeFloatRate(t *testing.T) {
	text, isErr := callTool(t, newServer(t), "zzptax_vat_from_gross", map[string]any{"gross": "121", "rate": 21.0})
	assert.False(t, isErr, text)
	assert.Contains(t, text, `"vat": "21.00"`)
}

func TestTool_MissingRate(t *testing.T) {
	text, isErr := callTool(t, newServer(t), "zzptax_btw_due", map[string]any{
		"sales_net": "50000", "purchases_net": "12000",
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid rate")
}

func TestTool_RejectsFractionalYear(t *testing.T) {
	s := newServer(t)

	text, isErr := callTool(t, s, "zzptax_income_tax", map[string]any{"taxable_income": "50000", "year": 2024.9})
	assert.True(t, isErr)
	assert.Contains(t, text, "2024.9 is not a whole number")

	text, isErr = callTool(t, s, "zzptax_mileage", map[string]any{"distance_km": "150", "year": 2024.5})
	assert.True(t, isErr)
	assert.Contains(t, text, "not a whole number")
}

func TestServer_DoesNotRecordHistory(t *testing.T) {
	dir := t.TempDir()
	svc := application.NewCalcService(domain.DefaultTaxConfig(), history.New(), dir, "")
	s := mcpadapter.NewZZPTaxMCPServer(svc, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, isErr := callTool(t, s, "zzptax_validate_iban", map[string]any{"iban": "NL91ABNA0417164300"})
	require.False(t, isErr)
	_, isErr = callTool(t, s, "zzptax_btw_due", map[string]any{"sales_net": "100", "purchases_net": "0", "rate": 21})
	require.False(t, isErr)

	_, err := os.Stat(filepath.Join(dir, ".zzptax"))
	assert.True(t, os.IsNotExist(err))
}

func TestTool_IncomeTax_UnsupportedYear(t *testing.T) {
	text, isErr := callTool(t, newServer(t), "zzptax_income_tax", map[string]any{
		"taxable_income": "50000", "year": 1999,
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "1999")
}

func TestTool_Mileage(t *testing.T) {
	text, isErr := callTool(t, newServer(t), "zzptax_mileage", map[string]any{
		"distance_km": "150", "year": 2024,
	})
	assert.False(t, isErr)
	assert.Contains(t, text, `"deduction": "34.50"`)
}

func TestTool_MissingArgument(t *testing.T) {
	_, isErr := callTool(t, newServer(t), "zzptax_categorize", map[string]any{})
	assert.True(t, isErr)
}

func TestTool_Categorize(t *testing.T) {
	text, isErr := callTool(t, newServer(t), "zzptax_categorize", map[string]any{"description": "Q-Park Centrum"})
	assert.False(t, isErr)
	assert.Contains(t, text, "Reiskosten")
}
