package services

import (
	"fmt"
	"io"
	"os"
	"strings"

	"catalog-trends/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const reportWidth = 55

// Reporter renders an InsightReport for the terminal
type Reporter struct {
	w       io.Writer
	banner  lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	value   lipgloss.Style
}

// NewReporter creates a Reporter writing to w. Colors are only emitted when w
// is a terminal.
func NewReporter(w io.Writer) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w: w,
		banner: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2CD7C7")).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#16858E")).
			Width(reportWidth).
			Align(lipgloss.Center),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#2C4A54")),
		value:   r.NewStyle().Bold(true),
	}
}

// PrintInsightReport prints the report to stdout
func PrintInsightReport(report *models.InsightReport) {
	NewReporter(os.Stdout).Print(report)
}

// Print writes every section of the report
func (r *Reporter) Print(report *models.InsightReport) {
	fmt.Fprintf(r.w, "\n%s\n", r.banner.Render("CATALOG TREND INSIGHTS"))

	r.printOverview(report)
	r.printTopConnected(report.TopConnected)
	r.printClusters(report)
	r.printOpportunities(report.Opportunities)

	fmt.Fprintf(r.w, "\n%s\n", r.muted.Render("Run "+report.RunID))
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("═", reportWidth))
}

func (r *Reporter) section(title string) {
	fmt.Fprintf(r.w, "\n %s\n%s\n", r.heading.Render(title), strings.Repeat("─", reportWidth))
}

func (r *Reporter) printOverview(report *models.InsightReport) {
	s := report.Summary
	r.section("DATASET STATISTICS")
	if report.Source != "" {
		fmt.Fprintf(r.w, "  Source                  : %s\n", report.Source)
	}
	fmt.Fprintf(r.w, "  Products                : %s\n", r.value.Render(humanize.Comma(int64(s.Products))))
	fmt.Fprintf(r.w, "  Graph nodes             : %s\n", humanize.Comma(int64(s.Nodes)))
	fmt.Fprintf(r.w, "  Connections             : %s\n", humanize.Comma(int64(s.Edges)))
	fmt.Fprintf(r.w, "  Avg connections/product : %.2f\n", s.AvgOutDegree)
	if report.Load.Duration > 0 {
		fmt.Fprintf(r.w, "  Load time               : %.2fs\n", report.Load.Duration.Seconds())
	}
	if report.Load.DefaultedRanks > 0 || report.Load.Dropped > 0 {
		fmt.Fprintf(r.w, "  Unparsed sales ranks    : %s\n", humanize.Comma(int64(report.Load.DefaultedRanks)))
		fmt.Fprintf(r.w, "  Dropped records         : %s\n", humanize.Comma(int64(report.Load.Dropped)))
	}
}

func (r *Reporter) printTopConnected(top []models.RankedProduct) {
	r.section(fmt.Sprintf("TOP %d PRODUCTS BY MARKET CONNECTIONS", len(top)))
	if len(top) == 0 {
		fmt.Fprintln(r.w, "  No products found with connections.")
		return
	}
	for i, rp := range top {
		fmt.Fprintf(r.w, "  %d. %s\n", i+1, displayTitle(rp.Product, 45))
		fmt.Fprintf(r.w, "     - ASIN: %s\n", rp.Product.ID)
		fmt.Fprintf(r.w, "     - Category: %s\n", rp.Product.Category)
		fmt.Fprintf(r.w, "     - Sales Rank: %s\n", rp.Product.SalesRank)
		fmt.Fprintf(r.w, "     - Connections: %d\n", rp.Connections)
	}
}

func (r *Reporter) printClusters(report *models.InsightReport) {
	r.section(fmt.Sprintf("TREND CLUSTERS (min size %d)", report.ClusterMinSize))
	if len(report.Clusters) == 0 {
		fmt.Fprintln(r.w, "  No trend clusters found.")
		return
	}
	fmt.Fprintf(r.w, "  %s\n", r.muted.Render(fmt.Sprintf("Showing %d of %s clusters",
		len(report.Clusters), humanize.Comma(int64(report.TotalClusters)))))
	for i, c := range report.Clusters {
		fmt.Fprintf(r.w, "  Trend Group %d (%s products):\n", i+1, humanize.Comma(int64(c.Size)))
		for _, p := range c.Sample {
			fmt.Fprintf(r.w, "     - %s (Rank: %s)\n", displayTitle(p, 40), p.SalesRank)
		}
	}
}

func (r *Reporter) printOpportunities(opps []models.Opportunity) {
	r.section("BEST MARKET OPPORTUNITIES")
	if len(opps) == 0 {
		fmt.Fprintln(r.w, "  No low competition products found.")
		return
	}
	for i, o := range opps {
		fmt.Fprintf(r.w, "  %d. %s (Opportunity Score: %.2f)\n", i+1, displayTitle(o.Product, 35), o.Score)
		fmt.Fprintf(r.w, "     - Current Rank: %s\n", o.Product.SalesRank)
		fmt.Fprintf(r.w, "     - Category: %s\n", o.Product.Category)
		fmt.Fprintf(r.w, "     - Connections: %d\n", o.Connections)
	}
}

// displayTitle falls back to the ASIN for products that never got a title
func displayTitle(p models.Product, width int) string {
	if strings.TrimSpace(p.Title) == "" {
		return "[" + p.ID + "]"
	}
	return truncate(p.Title, width)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
