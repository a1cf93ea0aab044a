package review

import (
	"context"
	"time"

	"promotion-lab/internal/decision"
	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
)

// FixtureNow is the frozen clock for demo mode. Fixtures are anchored to
// it so demo output is byte-identical across machines and days.
var FixtureNow = time.Date(2025, 3, 28, 16, 0, 0, 0, time.UTC)

// FixtureConfig is the evaluation request matching the fixture dataset.
func FixtureConfig() Config {
	return Config{
		StartingCapital: 100000,
		StartDate:       time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		Deadline:        time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Targets:         decision.DefaultTargets(),
	}
}

// LoadFixtures populates stores with a demo dataset: a first quarter of
// paper trading over three instruments plus a benchmark series, balance
// snapshots and run telemetry.
func LoadFixtures(
	ctx context.Context,
	trades storage.TradeStore,
	prices storage.PriceSeriesStore,
	snapshots storage.BalanceSnapshotStore,
	runs storage.RunStore,
) error {
	if err := trades.InsertBulk(ctx, fixtureTrades()); err != nil {
		return err
	}
	if err := prices.InsertBulk(ctx, fixturePrices()); err != nil {
		return err
	}
	if err := snapshots.InsertBulk(ctx, fixtureSnapshots()); err != nil {
		return err
	}
	for _, r := range fixtureRuns() {
		if err := runs.Insert(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func fixtureTrades() []*domain.TradeEvent {
	closed := func(id, symbol string, shares int64, entryPrice float64, entry time.Time, exitPrice float64, exit time.Time, strategy string) *domain.TradeEvent {
		pnl := (exitPrice - entryPrice) * float64(shares)
		pct := (exitPrice - entryPrice) / entryPrice * 100
		days := int(exit.Sub(entry).Hours() / 24)
		return &domain.TradeEvent{
			TradeID:       id,
			Symbol:        symbol,
			Side:          domain.SideBuy,
			Shares:        shares,
			EntryPrice:    entryPrice,
			EntryTime:     entry,
			ExitTime:      &exit,
			ExitPrice:     &exitPrice,
			ProfitLoss:    &pnl,
			ProfitLossPct: &pct,
			HoldingDays:   &days,
			Strategy:      strategy,
			Status:        domain.StatusClosed,
		}
	}
	open := func(id, symbol string, shares int64, entryPrice float64, entry time.Time, strategy string) *domain.TradeEvent {
		return &domain.TradeEvent{
			TradeID:    id,
			Symbol:     symbol,
			Side:       domain.SideBuy,
			Shares:     shares,
			EntryPrice: entryPrice,
			EntryTime:  entry,
			Strategy:   strategy,
			Status:     domain.StatusOpen,
		}
	}
	day := func(m time.Month, d int) time.Time {
		return time.Date(2025, m, d, 14, 30, 0, 0, time.UTC)
	}

	return []*domain.TradeEvent{
		closed("trade_001", "AAPL", 100, 185.20, day(time.January, 6), 192.40, day(time.January, 17), "momentum"),
		closed("trade_002", "MSFT", 50, 415.00, day(time.January, 8), 432.10, day(time.January, 24), "momentum"),
		closed("trade_003", "NVDA", 30, 612.00, day(time.January, 13), 655.50, day(time.February, 3), "momentum"),
		closed("trade_004", "AAPL", 80, 189.90, day(time.January, 21), 186.30, day(time.January, 31), "mean-reversion"),
		closed("trade_005", "MSFT", 40, 420.00, day(time.February, 4), 428.80, day(time.February, 14), "mean-reversion"),
		closed("trade_006", "NVDA", 25, 640.00, day(time.February, 10), 610.40, day(time.March, 3), "momentum"),
		closed("trade_007", "AAPL", 60, 182.50, day(time.February, 18), 191.00, day(time.March, 7), "momentum"),
		closed("trade_008", "MSFT", 45, 410.60, day(time.March, 4), 425.90, day(time.March, 21), "momentum"),
		open("trade_009", "NVDA", 20, 662.00, day(time.March, 17), "momentum"),
		open("trade_010", "AAPL", 50, 188.40, day(time.March, 24), "mean-reversion"),
	}
}

// fixturePrices returns Friday closes for the traded instruments and the
// SPY benchmark over the evaluation quarter.
func fixturePrices() []*domain.PricePoint {
	fridays := []time.Time{
		time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 24, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC),
	}
	closes := map[string][]float64{
		"AAPL": {184.60, 186.90, 192.40, 190.10, 186.30, 184.20, 185.70, 183.40, 186.10, 191.00, 189.60, 190.80, 192.20},
		"MSFT": {412.30, 418.50, 424.20, 432.10, 427.60, 423.90, 428.80, 425.10, 418.70, 414.30, 419.80, 425.90, 428.40},
		"NVDA": {605.00, 618.40, 634.90, 648.20, 652.70, 645.10, 638.40, 629.80, 615.20, 608.90, 641.30, 655.70, 668.10},
		"SPY":  {589.40, 594.20, 599.80, 603.50, 601.10, 598.70, 604.30, 600.90, 596.40, 592.80, 599.10, 605.60, 609.20},
	}

	var points []*domain.PricePoint
	for _, symbol := range []string{"AAPL", "MSFT", "NVDA", "SPY"} {
		for i, d := range fridays {
			points = append(points, &domain.PricePoint{Symbol: symbol, Date: d, Close: closes[symbol][i]})
		}
	}
	return points
}

func fixtureSnapshots() []*domain.BalanceSnapshot {
	snap := func(m time.Month, d int, total, cash float64) *domain.BalanceSnapshot {
		return &domain.BalanceSnapshot{
			Timestamp:  time.Date(2025, m, d, 21, 0, 0, 0, time.UTC),
			TotalValue: total,
			Cash:       cash,
			Equity:     total - cash,
		}
	}
	return []*domain.BalanceSnapshot{
		snap(time.January, 31, 100970, 62030),
		snap(time.February, 14, 101820, 55410),
		snap(time.February, 28, 101240, 68890),
		snap(time.March, 14, 102610, 59120),
		snap(time.March, 21, 103180, 78350),
		snap(time.March, 27, 103420, 69780),
	}
}

// fixtureRuns returns telemetry: one run per day across the trailing
// uptime window, all completed, plus an older failed run outside it.
func fixtureRuns() []*domain.RunRecord {
	run := func(id string, m time.Month, d int, status domain.RunStatus, errs int, msg string) *domain.RunRecord {
		started := time.Date(2025, m, d, 13, 0, 0, 0, time.UTC)
		ended := started.Add(12 * time.Minute)
		return &domain.RunRecord{
			RunID:        id,
			Mode:         "full",
			StartedAt:    started,
			EndedAt:      &ended,
			Status:       status,
			ErrorsCount:  errs,
			ErrorMessage: msg,
		}
	}
	return []*domain.RunRecord{
		run("run_310", time.March, 10, domain.RunFailed, 3, "price feed timeout"),
		run("run_322", time.March, 22, domain.RunCompleted, 0, ""),
		run("run_323", time.March, 23, domain.RunCompleted, 0, ""),
		run("run_324", time.March, 24, domain.RunCompleted, 0, ""),
		run("run_325", time.March, 25, domain.RunCompleted, 0, ""),
		run("run_326", time.March, 26, domain.RunCompleted, 0, ""),
		run("run_327", time.March, 27, domain.RunCompleted, 0, ""),
		run("run_328", time.March, 28, domain.RunCompleted, 0, ""),
	}
}
