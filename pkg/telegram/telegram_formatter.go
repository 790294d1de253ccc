package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/utils"
)

const maxMessageLen = 4090

// FormatMoversReport renders the day's movers as one or more Markdown messages,
// each no longer than Telegram allows.
func FormatMoversReport(report *dto.MoversReport) []string {
	var messages []string
	var current strings.Builder
	part := 1

	startNewPart := func() {
		current.Reset()
		if part == 1 {
			current.WriteString(fmt.Sprintf("📊 *%s Top Movers* - %s\n", report.IndexName, utils.FormatDate(report.Date)))
			current.WriteString(indexLine(report.IndexSummary))
			current.WriteString("\n")
			return
		}
		current.WriteString(fmt.Sprintf("---*Top Movers %s Part %d*---\n\n", utils.FormatDate(report.Date), part))
	}
	appendEntry := func(entry string) {
		if current.Len()+len(entry) > maxMessageLen {
			messages = append(messages, current.String())
			part++
			startNewPart()
		}
		current.WriteString(entry)
	}

	startNewPart()

	if len(report.Gainers) == 0 && len(report.Losers) == 0 {
		current.WriteString("_No constituent moved the index today._\n")
		return append(messages, current.String())
	}

	if len(report.Gainers) > 0 {
		appendEntry("🟢 *Top Gainers*\n")
		for _, m := range report.Gainers {
			appendEntry(moverEntry(m))
		}
	}
	if len(report.Losers) > 0 {
		appendEntry("🔴 *Top Losers*\n")
		for _, m := range report.Losers {
			appendEntry(moverEntry(m))
		}
	}

	return append(messages, current.String())
}

func indexLine(level entity.IndexLevel) string {
	return fmt.Sprintf("Index: *%.2f* (%s, %s)\n", level.CurrentPrice, signed(level.Change, ""), signed(level.PercentChange, "%"))
}

func moverEntry(m entity.MoverRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d. `%s` %s\n", abs(m.Rank), m.Symbol, escape(m.CompanyName)))
	b.WriteString(fmt.Sprintf("   %s | %s pts | $%.2f\n", signed(m.PercentChange, "%"), signed(m.IndexPointsContribution, ""), m.ClosePrice))

	headline, url := m.PositiveHeadline, m.PositiveHeadlineURL
	if m.MoverType == entity.MoverTypeLoser {
		headline, url = m.NegativeHeadline, m.NegativeHeadlineURL
	}
	if headline != nil {
		if url != nil && *url != "" {
			b.WriteString(fmt.Sprintf("   📰 [%s](%s)\n", escape(*headline), *url))
		} else {
			b.WriteString(fmt.Sprintf("   📰 %s\n", escape(*headline)))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// FormatErrorAlertMessage renders a pipeline failure notice.
func FormatErrorAlertMessage(at time.Time, stage string, errMsg string, date string) string {
	return fmt.Sprintf("📛 *Top movers report failed*\n%s\n🔧 %s\n⚠️ %s\n📅 Report date: %s\n",
		utils.PrettyDate(at), escape(stage), escape(errMsg), date)
}

func signed(v float64, suffix string) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f%s", v, suffix)
	}
	return fmt.Sprintf("%.2f%s", v, suffix)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
