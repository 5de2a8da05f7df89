package stage

import (
	"math"
	"strconv"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
)

// Report is the performance summary of one run.
type Report struct {
	ID              int     `json:"id"`
	RunID           int     `json:"run_id"`
	TotalNetProfit  float64 `json:"total_net_profit"`
	GrossProfit     float64 `json:"gross_profit"`
	GrossLoss       float64 `json:"gross_loss"`
	ProfitFactor    float64 `json:"profit_factor"`
	TotalTrades     int     `json:"total_trades"`
	PercProfitable  float64 `json:"perc_profitable"`
	WinTrades       int     `json:"win_trades"`
	LoseTrades      int     `json:"lose_trades"`
	AvgNetProfit    float64 `json:"avg_net_profit"`
	AvgWin          float64 `json:"avg_win"`
	AvgLoss         float64 `json:"avg_loss"`
	AvgWinLossRatio float64 `json:"avg_win_loss_ratio"`
	LargestWin      float64 `json:"largest_win"`
	LargestLoss     float64 `json:"largest_loss"`
	MaxWinStreak    int     `json:"max_win_streak"`
	MaxLoseStreak   int     `json:"max_lose_streak"`
	AvgBarsAll      float64 `json:"avg_bars_all"`
	AvgBarsWin      float64 `json:"avg_bars_win"`
	AvgBarsLoss     float64 `json:"avg_bars_loss"`
	MaxDrawdown     float64 `json:"max_drawdown"`
}

// ToLogRow renders the report in ReportLogHeader order.
func (r Report) ToLogRow() types.LogRow {
	return types.LogRow{
		itoa(r.ID),
		types.FormatMoney(r.TotalNetProfit),
		types.FormatMoney(r.GrossProfit),
		types.FormatMoney(r.GrossLoss),
		types.FormatMoney(r.ProfitFactor),
		itoa(r.TotalTrades),
		types.FormatMoney(r.PercProfitable),
		itoa(r.WinTrades),
		itoa(r.LoseTrades),
		types.FormatMoney(r.AvgNetProfit),
		types.FormatMoney(r.AvgWin),
		types.FormatMoney(r.AvgLoss),
		types.FormatMoney(r.AvgWinLossRatio),
		types.FormatMoney(r.LargestWin),
		types.FormatMoney(r.LargestLoss),
		itoa(r.MaxWinStreak),
		itoa(r.MaxLoseStreak),
		types.FormatMoney(r.AvgBarsAll),
		types.FormatMoney(r.AvgBarsWin),
		types.FormatMoney(r.AvgBarsLoss),
		types.FormatMoney(r.MaxDrawdown),
		itoa(r.RunID),
	}
}

// Reporter accumulates closed order rows and account rows into a Report.
// It only reads the logged values, so it reports exactly what was written.
type Reporter struct {
	run   settings.Run
	repID int

	grossProfit float64
	grossLoss   float64
	totalTrades int
	winTrades   int
	loseTrades  int
	largestWin  float64
	largestLoss float64
	maxDrawdown float64

	maxWinStreak   int
	maxLoseStreak  int
	currWinStreak  int
	currLoseStreak int

	totalBarsAll  int
	totalBarsWin  int
	totalBarsLoss int
}

func NewReporter() *Reporter {
	return &Reporter{}
}

// SetRun starts the report of a new run.
func (r *Reporter) SetRun(run settings.Run) {
	r.run = run
	r.repID++
}

// Reset clears the accumulated statistics. The report id keeps counting.
func (r *Reporter) Reset() {
	*r = Reporter{run: r.run, repID: r.repID}
}

// UpdateLogs folds one bar's account row and closed order rows into the
// statistics.
func (r *Reporter) UpdateLogs(account optional.Option[types.LogRow], orders []types.LogRow) {
	if account.IsSome() {
		drawdown := parseFloat(account.Unwrap().Value(types.AccountLogHeader, "ACC_DRAWDOWN"))
		r.maxDrawdown = math.Max(r.maxDrawdown, drawdown)
	}

	for _, order := range orders {
		pnl := parseFloat(order.Value(types.OrderLogHeader, "ORD_PNL"))
		bars, _ := strconv.Atoi(order.Value(types.OrderLogHeader, "ORD_CANDLE_COUNT"))

		r.totalTrades++
		r.totalBarsAll += bars

		switch {
		case pnl > 0:
			r.winTrades++
			r.totalBarsWin += bars
			r.grossProfit += pnl
			r.largestWin = math.Max(r.largestWin, pnl)
			r.currWinStreak++
			r.currLoseStreak = 0
			r.maxWinStreak = max(r.maxWinStreak, r.currWinStreak)
		case pnl < 0:
			r.loseTrades++
			r.totalBarsLoss += bars
			r.grossLoss += pnl
			r.largestLoss = math.Min(r.largestLoss, pnl)
			r.currLoseStreak++
			r.currWinStreak = 0
			r.maxLoseStreak = max(r.maxLoseStreak, r.currLoseStreak)
		}
	}
}

// Report computes the summary from the statistics gathered so far.
func (r *Reporter) Report() Report {
	report := Report{
		ID:             r.repID,
		RunID:          r.run.ID,
		GrossProfit:    r.grossProfit,
		GrossLoss:      r.grossLoss,
		TotalNetProfit: r.grossProfit + r.grossLoss,
		TotalTrades:    r.totalTrades,
		WinTrades:      r.winTrades,
		LoseTrades:     r.loseTrades,
		LargestWin:     r.largestWin,
		LargestLoss:    r.largestLoss,
		MaxWinStreak:   r.maxWinStreak,
		MaxLoseStreak:  r.maxLoseStreak,
		MaxDrawdown:    r.maxDrawdown,
	}

	report.ProfitFactor = math.Abs(ratio(r.grossProfit, r.grossLoss))
	report.PercProfitable = ratio(100*float64(r.winTrades), float64(r.totalTrades))
	report.AvgNetProfit = ratio(report.TotalNetProfit, float64(r.totalTrades))
	report.AvgWin = ratio(r.grossProfit, float64(r.winTrades))
	report.AvgLoss = ratio(r.grossLoss, float64(r.loseTrades))
	report.AvgWinLossRatio = math.Abs(ratio(report.AvgWin, report.AvgLoss))
	report.AvgBarsAll = ratio(float64(r.totalBarsAll), float64(r.totalTrades))
	report.AvgBarsWin = ratio(float64(r.totalBarsWin), float64(r.winTrades))
	report.AvgBarsLoss = ratio(float64(r.totalBarsLoss), float64(r.loseTrades))

	return report
}

// ToLogRow renders the current report.
func (r *Reporter) ToLogRow() types.LogRow {
	return r.Report().ToLogRow()
}

func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

func parseFloat(value string) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}

	return v
}
