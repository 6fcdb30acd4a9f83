package synthetic

import "BTCPulse/internal/domain/models"

// Indicators returns days+1 daily indicator rows ending today.
func (g *Generator) Indicators(days int) []models.TechnicalIndicator {
	if days < 0 {
		return []models.TechnicalIndicator{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	out := make([]models.TechnicalIndicator, 0, days+1)
	for i := days; i >= 0; i-- {
		out = append(out, models.TechnicalIndicator{
			DateOnly:       dateOnly(now.AddDate(0, 0, -i)),
			SMA50:          g.uniform(95000, 100000),
			RSI14:          g.uniform(30, 70),
			MACD:           g.uniform(-200, 200),
			MACDSignal:     g.uniform(-150, 150),
			BollingerUpper: g.uniform(100000, 105000),
			BollingerLower: g.uniform(90000, 95000),
		})
	}
	return out
}

// ModelMetrics returns the stub evaluation of the forecasting model.
func (g *Generator) ModelMetrics(modelName string) models.ModelMetrics {
	if modelName == "" {
		modelName = models.DefaultModelName
	}
	return models.ModelMetrics{
		ModelName:      modelName,
		EvaluationDate: dateOnly(g.now()),
		Metrics: models.ErrorMetrics{
			MAE:            120.50,
			RMSE:           150.75,
			MAPEPercentage: 3.2,
			R2Score:        0.89,
		},
		ImprovementVsBenchmark: models.BenchmarkComparison{
			MAEReductionPercentage: 6.5,
			Status:                 models.BenchmarkSuccess,
		},
	}
}

func (g *Generator) Health() models.HealthStatus {
	return models.HealthStatus{
		Status:    models.StatusHealthy,
		Database:  models.StatusConnected,
		Redis:     models.StatusConnected,
		Timestamp: g.now().UTC(),
	}
}
