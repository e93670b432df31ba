package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zzptax/zzptax/internal/application"
	"github.com/zzptax/zzptax/internal/domain/categorize"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// RenderIncomeTax shows the per-bracket breakdown and totals.
func RenderIncomeTax(r *application.IncomeTaxReport) string {
	var b strings.Builder

	title := headerStyle.Render(fmt.Sprintf("Inkomstenbelasting %d", r.Year))
	total := amountStyle.Render(r.TotalTaxDue.String())
	rates := dimStyle.Render(fmt.Sprintf("effectief %s  ·  marginaal %s", r.EffectiveRate, r.MarginalRate))
	b.WriteString(boxStyle.Render(title + "\n\n" + total + "\n" + rates))
	b.WriteString("\n\n")

	b.WriteString("  " + sectionHeaderStyle.Render("Schijven") + "\n")
	for _, s := range r.Slices {
		upper := "∞"
		if s.Upper != nil {
			upper = s.Upper.String()
		}
		bounds := fmt.Sprintf("%s – %s", s.Lower.String(), upper)
		fmt.Fprintf(&b, "    %s %s %s\n",
			dimStyle.Render(padRight(bounds, 30)),
			faintStyle.Render(padLeft(s.Rate, 7)),
			padLeft(s.Tax.String(), 16),
		)
	}
	b.WriteString("\n")

	row(&b, "Belastbaar inkomen", r.TaxableIncome)
	row(&b, "Inkomstenbelasting", r.IncomeTax)
	row(&b, "Bijdrage Zvw", r.SocialContributions)
	b.WriteString("  " + separatorLine + "\n")
	row(&b, "Totaal", r.TotalTaxDue)

	if r.TableRevision != "" {
		b.WriteString("\n  " + hintStyle.Render("tabellen @ "+shortRevision(r.TableRevision)) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// RenderMileage shows a trip deduction and flags an exceeded annual limit.
func RenderMileage(r *application.MileageReport) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(padRight("Afstand", 28)), padLeft(r.DistanceKm+" km", 18))
	row(&b, "Tarief per km", r.RatePerKm)
	b.WriteString("  " + separatorLine + "\n")
	row(&b, "Aftrek", r.Deduction)

	if r.ExceedsAnnualCap {
		b.WriteString("\n  " + warnStyle.Render(fmt.Sprintf(
			"● %s km dit jaar is meer dan de grens van %s km; controleer de rittenregistratie.",
			r.AnnualKm, r.AnnualCapKm)) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// RenderCategory shows the suggested category for a transaction.
func RenderCategory(description string, m categorize.Match) string {
	icon := passStyle.Render("●")
	detail := dimStyle.Render("keyword: " + m.Keyword)
	if !m.Matched {
		icon = warnStyle.Render("○")
		detail = dimStyle.Render("no keyword matched")
	}
	return fmt.Sprintf("\n  %s %s  %s\n  %s\n\n", icon, titleStyle.Render(m.Category), detail, faintStyle.Render(description))
}

// RenderTables lists the configured tax tables with derived base amounts.
func RenderTables(tables []application.TableReport) string {
	if len(tables) == 0 {
		return "  " + dimStyle.Render("No tax tables configured.") + "\n"
	}

	var b strings.Builder
	for _, t := range tables {
		b.WriteString("\n")
		header := fmt.Sprintf("  %s", sectionHeaderStyle.Render(fmt.Sprintf("%d", t.Year)))
		if t.Revision != "" {
			header += "  " + hintStyle.Render(shortRevision(t.Revision))
		}
		b.WriteString(header + "\n")

		for _, br := range t.Brackets {
			upper := "∞"
			if br.Upper != nil {
				upper = br.Upper.String()
			}
			fmt.Fprintf(&b, "    %s %s  %s\n",
				dimStyle.Render(padRight(fmt.Sprintf("%s – %s", br.Lower.String(), upper), 30)),
				padLeft(br.Rate, 7),
				faintStyle.Render("basis "+br.BaseTax.String()),
			)
		}
		fmt.Fprintf(&b, "    %s %s, max %s\n", labelStyle.Render("Zvw"), t.SocialContributionRate, t.SocialContributionCap.String())
		fmt.Fprintf(&b, "    %s %s per km, grens %s km\n", labelStyle.Render("Kilometers"), t.MileageRatePerKm.String(), t.MileageAnnualCapKm)
	}
	b.WriteString("\n")
	return b.String()
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
