package race

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
	"github.com/mpapenbr/f1-visual-simulator/pkg/processing"
)

type raceMetrics struct {
	laps      metric.Int64Counter
	pitStops  metric.Int64Counter
	overtakes metric.Int64Counter
	lapTime   metric.Float64Histogram
}

func newRaceMetrics(l *log.Logger) *raceMetrics {
	meter := otel.GetMeterProvider().Meter("f1sim.race")
	ret := &raceMetrics{}
	var err error
	if ret.laps, err = meter.Int64Counter("f1sim.race.laps",
		metric.WithDescription("Number of simulated laps"),
		metric.WithUnit("{lap}")); err != nil {
		l.Error("failed to register metric", log.String("metric", "laps"), log.ErrorField(err))
	}
	if ret.pitStops, err = meter.Int64Counter("f1sim.race.pitstops",
		metric.WithDescription("Number of pit stops"),
		metric.WithUnit("{count}")); err != nil {
		l.Error("failed to register metric", log.String("metric", "pitstops"), log.ErrorField(err))
	}
	if ret.overtakes, err = meter.Int64Counter("f1sim.race.overtakes",
		metric.WithDescription("Number of overtakes"),
		metric.WithUnit("{count}")); err != nil {
		l.Error("failed to register metric", log.String("metric", "overtakes"), log.ErrorField(err))
	}
	if ret.lapTime, err = meter.Float64Histogram("f1sim.race.laptime",
		metric.WithDescription("Simulated lap times"),
		metric.WithUnit("s")); err != nil {
		l.Error("failed to register metric", log.String("metric", "laptime"), log.ErrorField(err))
	}
	return ret
}

func (m *raceMetrics) recordLap(res *processing.LapResult) {
	ctx := context.Background()
	if m.laps != nil {
		m.laps.Add(ctx, 1)
	}
	var pits, overtakes int64
	for i := range res.Events {
		switch res.Events[i].Type {
		case model.EventPit:
			pits++
		case model.EventOvertake:
			overtakes++
		}
	}
	if m.pitStops != nil && pits > 0 {
		m.pitStops.Add(ctx, pits)
	}
	if m.overtakes != nil && overtakes > 0 {
		m.overtakes.Add(ctx, overtakes)
	}
	if m.lapTime != nil {
		for i := range res.Cars {
			m.lapTime.Record(ctx, res.Cars[i].LapTime,
				metric.WithAttributes(
					attribute.Bool("player", res.Cars[i].IsPlayer),
					attribute.String("tyre", res.Cars[i].Tyre.String())))
		}
	}
}
