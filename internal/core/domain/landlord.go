package domain

// Landlord - арендодатель.
type Landlord struct {
	ID           int64
	Name         string
	MobileNumber int64
	Email        string
}

// LandlordStatisticsReport - статистика в том виде, в котором ее отдает бэкенд.
// MonthlyIncome может отсутствовать, если у арендодателя нет сданных объектов.
type LandlordStatisticsReport struct {
	LandlordID    int64
	MonthlyIncome *float64
}

// LandlordStatistics - нормализованная статистика для отображения.
type LandlordStatistics struct {
	LandlordID    int64
	MonthlyIncome float64
}

// Normalize подставляет 0 вместо отсутствующего дохода.
func (r LandlordStatisticsReport) Normalize() LandlordStatistics {
	stats := LandlordStatistics{LandlordID: r.LandlordID}
	if r.MonthlyIncome != nil {
		stats.MonthlyIncome = *r.MonthlyIncome
	}
	return stats
}
