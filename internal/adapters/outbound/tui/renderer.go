package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zzptax/zzptax/internal/application"
	"github.com/zzptax/zzptax/internal/domain"
	"github.com/zzptax/zzptax/internal/domain/btw"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(56)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	labelStyle    = lipgloss.NewStyle().Foreground(dim)
	amountStyle   = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 52))
)

// RenderIBANs lists checked IBANs, one per line.
func RenderIBANs(reports []application.IBANReport) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, r := range reports {
		if r.Valid {
			fmt.Fprintf(&b, "  %s %s  %s\n",
				passStyle.Render("●"),
				amountStyle.Render(r.Display),
				dimStyle.Render(r.Bank),
			)
			continue
		}
		shown := r.Display
		if shown == "" {
			shown = "(empty)"
		}
		fmt.Fprintf(&b, "  %s %s  %s\n",
			failStyle.Render("●"),
			titleStyle.Render(shown),
			failStyle.Render(strings.ReplaceAll(r.Reason, "_", " ")),
		)
	}
	b.WriteString("\n")
	return b.String()
}

// RenderBTW shows the BTW position of a period.
func RenderBTW(r *application.BTWReport) string {
	var b strings.Builder

	title := headerStyle.Render("BTW-aangifte")
	subtitle := dimStyle.Render(fmt.Sprintf("tarief %d%%", r.Rate))
	due := lipgloss.NewStyle().
		Bold(true).
		Foreground(directionColor(r.Direction)).
		Render(domain.FormatEuro(r.NetVatDue.Abs()))
	direction := dimStyle.Render(r.Direction)

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + due + "  " + direction))
	b.WriteString("\n\n")

	row(&b, "Omzet (excl. btw)", r.SalesNet)
	row(&b, "Verschuldigde btw", r.SalesVat)
	b.WriteString("\n")
	row(&b, "Kosten (excl. btw)", r.PurchasesNet)
	row(&b, "Voorbelasting", r.PurchasesVat)
	b.WriteString("  " + separatorLine + "\n")
	row(&b, "Saldo", r.NetVatDue)
	b.WriteString("\n")
	return b.String()
}

// RenderGross shows the BTW contained in a gross amount.
func RenderGross(r *application.GrossReport) string {
	var b strings.Builder
	b.WriteString("\n")
	row(&b, "Bedrag incl. btw", r.Gross)
	row(&b, fmt.Sprintf("Btw %d%%", r.Rate), r.Vat)
	b.WriteString("  " + separatorLine + "\n")
	row(&b, "Bedrag excl. btw", r.Net)
	b.WriteString("\n")
	return b.String()
}

// RenderPeriod shows a quarterly filing period and its deadline.
func RenderPeriod(p *application.PeriodReport) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s\n", titleStyle.Render(p.Label), dimStyle.Render(p.Start+" t/m "+p.End))
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("Aangifte en betaling uiterlijk"), warnStyle.Render(p.DueDate))
	b.WriteString("\n")
	return b.String()
}

// RenderHistory formats calculation history for terminal output.
func RenderHistory(entries []domain.CalculationEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No calculation history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Calculation History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, e := range entries {
		rev := shortRevision(e.TableRevision)
		if rev == "" {
			rev = "·······"
		}

		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			dimStyle.Render(e.Timestamp.Format("2006-01-02 15:04")),
			faintStyle.Render(rev),
			titleStyle.Render(padRight(string(e.Kind), 12)),
			summarize(e),
		)
	}

	return b.String()
}

// summarize picks the headline output of an entry.
func summarize(e domain.CalculationEntry) string {
	for _, key := range []string{"net_vat_due", "total_tax_due", "deduction", "vat", "valid"} {
		if v, ok := e.Outputs[key]; ok {
			return dimStyle.Render(key+"=") + v
		}
	}
	return ""
}

func row(b *strings.Builder, label string, amount domain.Euro) {
	fmt.Fprintf(b, "  %s %s\n", labelStyle.Render(padRight(label, 28)), padLeft(amount.String(), 18))
}

func directionColor(direction string) lipgloss.Color {
	switch direction {
	case btw.DirectionPay:
		return danger
	case btw.DirectionReceive:
		return success
	default:
		return fg
	}
}

func padRight(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func padLeft(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
