package service

import (
	"time"

	"stock-advisor/internal/entity"
	"stock-advisor/pkg/utils"
)

// defaultUniverse returns the embedded NSE large-cap universe used until the
// first refresh lands in the database. Quote figures are a static baseline;
// the refresh service overwrites them with live data.
func defaultUniverse() []entity.Stock {
	now := time.Now()
	mk := func(symbol, name, sector, industry string, price, changePct float64, volume int64, mcapCr float64, pe, pb, roe float64, health entity.Health, signal entity.Signal) entity.Stock {
		stock := entity.Stock{
			Symbol:      symbol,
			Name:        name,
			Exchange:    "NSE",
			Sector:      sector,
			Industry:    industry,
			Price:       price,
			ChangePct:   changePct,
			Volume:      volume,
			MarketCap:   mcapCr * 1e7,
			Health:      health,
			Signal:      signal,
			LastUpdated: now,
		}
		if pe > 0 {
			stock.PERatio = utils.ToPointer(pe)
		}
		if pb > 0 {
			stock.PBRatio = utils.ToPointer(pb)
		}
		if roe > 0 {
			stock.ROE = utils.ToPointer(roe)
		}
		return stock
	}

	return []entity.Stock{
		mk("RELIANCE", "Reliance Industries", "Energy", "Oil & Gas Refining", 2950.40, 0.85, 5200000, 1995000, 27.8, 2.4, 9.2, entity.HealthGood, entity.SignalBuy),
		mk("TCS", "Tata Consultancy Services", "IT", "IT Services & Consulting", 4125.75, 0.42, 1800000, 1510000, 31.5, 14.2, 46.8, entity.HealthBest, entity.SignalBuy),
		mk("HDFCBANK", "HDFC Bank", "Banking", "Private Sector Bank", 1688.30, -0.21, 9400000, 1285000, 19.1, 2.8, 16.9, entity.HealthGood, entity.SignalHold),
		mk("BHARTIARTL", "Bharti Airtel", "Telecom", "Telecom Services", 1545.60, 1.12, 4100000, 925000, 68.4, 9.8, 14.7, entity.HealthGood, entity.SignalBuy),
		mk("ICICIBANK", "ICICI Bank", "Banking", "Private Sector Bank", 1245.90, 0.38, 7800000, 878000, 18.6, 3.2, 18.4, entity.HealthBest, entity.SignalBuy),
		mk("INFY", "Infosys", "IT", "IT Services & Consulting", 1855.20, -0.65, 3900000, 770000, 28.3, 8.7, 31.2, entity.HealthGood, entity.SignalHold),
		mk("SBIN", "State Bank of India", "Banking", "Public Sector Bank", 815.45, 0.92, 11200000, 728000, 10.4, 1.8, 17.3, entity.HealthNormal, entity.SignalBuy),
		mk("HINDUNILVR", "Hindustan Unilever", "FMCG", "Personal Care", 2480.10, -0.18, 1300000, 583000, 56.7, 11.4, 20.1, entity.HealthGood, entity.SignalHold),
		mk("ITC", "ITC", "FMCG", "Diversified FMCG", 465.80, 0.22, 8600000, 582000, 28.9, 7.3, 28.5, entity.HealthGood, entity.SignalHold),
		mk("LT", "Larsen & Toubro", "Infra", "Construction & Engineering", 3620.50, 1.35, 2100000, 498000, 35.2, 5.1, 15.2, entity.HealthGood, entity.SignalBuy),
		mk("HCLTECH", "HCL Technologies", "IT", "IT Services & Consulting", 1780.95, 0.55, 1700000, 483000, 27.6, 6.9, 23.4, entity.HealthGood, entity.SignalHold),
		mk("BAJFINANCE", "Bajaj Finance", "Banking", "NBFC", 7125.40, -0.84, 950000, 441000, 30.5, 5.8, 22.1, entity.HealthGood, entity.SignalHold),
		mk("SUNPHARMA", "Sun Pharmaceutical", "Pharma", "Pharmaceuticals", 1815.30, 0.67, 1600000, 435000, 38.9, 6.2, 16.8, entity.HealthGood, entity.SignalBuy),
		mk("MARUTI", "Maruti Suzuki India", "Auto", "Passenger Cars", 12480.60, 0.31, 420000, 392000, 28.4, 4.6, 17.1, entity.HealthGood, entity.SignalHold),
		mk("KOTAKBANK", "Kotak Mahindra Bank", "Banking", "Private Sector Bank", 1795.25, -0.42, 3200000, 357000, 19.8, 2.9, 15.3, entity.HealthNormal, entity.SignalHold),
		mk("AXISBANK", "Axis Bank", "Banking", "Private Sector Bank", 1142.70, 0.15, 5600000, 353000, 13.2, 2.3, 18.0, entity.HealthGood, entity.SignalBuy),
		mk("TITAN", "Titan Company", "FMCG", "Consumer Durables", 3380.85, -1.05, 780000, 300000, 86.3, 25.1, 30.9, entity.HealthNormal, entity.SignalHold),
		mk("ULTRACEMCO", "UltraTech Cement", "Infra", "Cement", 11240.20, 0.48, 310000, 324000, 42.7, 5.4, 13.6, entity.HealthNormal, entity.SignalHold),
		mk("NTPC", "NTPC", "Energy", "Power Generation", 362.45, 1.28, 9800000, 351000, 16.3, 2.1, 13.4, entity.HealthNormal, entity.SignalBuy),
		mk("TATAMOTORS", "Tata Motors", "Auto", "Automobiles", 985.15, -1.42, 8900000, 327000, 10.8, 3.4, 36.2, entity.HealthNormal, entity.SignalHold),
		mk("POWERGRID", "Power Grid Corporation", "Energy", "Power Transmission", 332.60, 0.74, 7400000, 309000, 19.7, 3.3, 17.6, entity.HealthGood, entity.SignalHold),
		mk("ASIANPAINT", "Asian Paints", "FMCG", "Paints", 2890.45, -0.58, 920000, 277000, 52.1, 16.8, 31.4, entity.HealthNormal, entity.SignalSell),
		mk("WIPRO", "Wipro", "IT", "IT Services & Consulting", 545.80, 0.12, 4300000, 285000, 24.6, 3.8, 14.9, entity.HealthNormal, entity.SignalHold),
		mk("ONGC", "Oil & Natural Gas Corporation", "Energy", "Oil Exploration", 268.35, 0.95, 10800000, 338000, 8.2, 1.1, 14.2, entity.HealthNormal, entity.SignalBuy),
		mk("TATASTEEL", "Tata Steel", "Metal", "Steel", 152.70, -0.88, 21500000, 191000, 48.2, 2.1, 4.8, entity.HealthBad, entity.SignalHold),
		mk("JSWSTEEL", "JSW Steel", "Metal", "Steel", 935.50, -0.35, 1500000, 229000, 27.4, 2.9, 11.1, entity.HealthNormal, entity.SignalHold),
		mk("COALINDIA", "Coal India", "Metal", "Coal Mining", 498.25, 1.56, 6700000, 307000, 8.5, 3.6, 42.3, entity.HealthGood, entity.SignalBuy),
		mk("DRREDDY", "Dr. Reddy's Laboratories", "Pharma", "Pharmaceuticals", 6480.90, 0.28, 380000, 108000, 19.4, 3.9, 19.8, entity.HealthGood, entity.SignalHold),
		mk("CIPLA", "Cipla", "Pharma", "Pharmaceuticals", 1528.75, 0.81, 1400000, 123000, 28.7, 4.5, 16.4, entity.HealthGood, entity.SignalBuy),
		mk("ADANIPORTS", "Adani Ports & SEZ", "Infra", "Ports & Logistics", 1385.40, -0.72, 2400000, 299000, 28.1, 5.2, 19.3, entity.HealthNormal, entity.SignalHold),
	}
}
