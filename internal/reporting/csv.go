package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the daily metrics as a CSV string.
func RenderCSV(daily []DailyRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("day,trades,wins,losses,win_rate,total_pnl_usd,avg_pnl_usd,avg_roi,")
	sb.WriteString("total_fees_usd,full_fills,partial_fills,fill_rate,max_drawdown_usd\n")

	// Rows
	for _, d := range daily {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%d,%d,%.6f,%.6f\n",
			d.Day,
			d.Trades,
			d.Wins,
			d.Losses,
			d.WinRate,
			d.TotalPnLUSD,
			d.AvgPnLUSD,
			d.AvgROI,
			d.TotalFeesUSD,
			d.FullFills,
			d.PartialFills,
			d.FillRate,
			d.MaxDrawdownUSD,
		))
	}

	return sb.String()
}
