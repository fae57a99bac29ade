package market

// Listing is the static seed data for one instrument: its identity and the
// nominal price the warm-up walk starts from.
type Listing struct {
	Symbol string
	Name   string
	Price  float64
	Sector string
}

// DefaultListings is the built-in catalog of major NSE stocks the platform
// simulates when no custom catalog is configured.
var DefaultListings = []Listing{
	{Symbol: "TCS", Name: "Tata Consultancy Services", Price: 3480.00, Sector: "IT"},
	{Symbol: "INFY", Name: "Infosys Ltd", Price: 1425.80, Sector: "IT"},
	{Symbol: "HDFCBANK", Name: "HDFC Bank", Price: 1512.25, Sector: "Finance"},
	{Symbol: "RELIANCE", Name: "Reliance Industries", Price: 2355.50, Sector: "Energy"},
	{Symbol: "TATAMOTORS", Name: "Tata Motors", Price: 960.40, Sector: "Auto"},
	{Symbol: "ITC", Name: "ITC Ltd", Price: 445.50, Sector: "FMCG"},
	{Symbol: "SBIN", Name: "State Bank of India", Price: 575.20, Sector: "Finance"},
	{Symbol: "BAJFINANCE", Name: "Bajaj Finance", Price: 7200.00, Sector: "Finance"},
	{Symbol: "HINDUNILVR", Name: "Hindustan Unilever", Price: 2500.00, Sector: "FMCG"},
	{Symbol: "ICICIBANK", Name: "ICICI Bank", Price: 950.00, Sector: "Finance"},
	{Symbol: "BHARTIARTL", Name: "Bharti Airtel", Price: 880.00, Sector: "Telecom"},
	{Symbol: "LT", Name: "Larsen & Toubro", Price: 2900.00, Sector: "Construction"},
	{Symbol: "AXISBANK", Name: "Axis Bank", Price: 980.00, Sector: "Finance"},
	{Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank", Price: 1750.00, Sector: "Finance"},
	{Symbol: "MARUTI", Name: "Maruti Suzuki", Price: 10500.00, Sector: "Auto"},
	{Symbol: "SUNPHARMA", Name: "Sun Pharma", Price: 1150.00, Sector: "Pharma"},
	{Symbol: "TITAN", Name: "Titan Company", Price: 3100.00, Sector: "Consumer"},
	{Symbol: "ULTRACEMCO", Name: "UltraTech Cement", Price: 8500.00, Sector: "Construction"},
	{Symbol: "WIPRO", Name: "Wipro Ltd", Price: 410.00, Sector: "IT"},
	{Symbol: "TATASTEEL", Name: "Tata Steel", Price: 130.00, Sector: "Metal"},
	{Symbol: "ASIANPAINT", Name: "Asian Paints", Price: 3200.00, Sector: "Consumer"},
	{Symbol: "HCLTECH", Name: "HCL Technologies", Price: 1250.00, Sector: "IT"},
	{Symbol: "NTPC", Name: "NTPC Ltd", Price: 240.00, Sector: "Energy"},
	{Symbol: "POWERGRID", Name: "Power Grid Corp", Price: 210.00, Sector: "Energy"},
	{Symbol: "M&M", Name: "Mahindra & Mahindra", Price: 1600.00, Sector: "Auto"},
	{Symbol: "ADANIENT", Name: "Adani Enterprises", Price: 2500.00, Sector: "Energy"},
	{Symbol: "ADANIGREEN", Name: "Adani Green", Price: 950.00, Sector: "Energy"},
	{Symbol: "ADANIPORTS", Name: "Adani Ports", Price: 820.00, Sector: "Infrastructure"},
	{Symbol: "COALINDIA", Name: "Coal India", Price: 350.00, Sector: "Energy"},
	{Symbol: "ONGC", Name: "ONGC", Price: 190.00, Sector: "Energy"},
	{Symbol: "BPCL", Name: "BPCL", Price: 350.00, Sector: "Energy"},
	{Symbol: "GRASIM", Name: "Grasim Industries", Price: 1950.00, Sector: "Construction"},
	{Symbol: "JSWSTEEL", Name: "JSW Steel", Price: 820.00, Sector: "Metal"},
	{Symbol: "HINDALCO", Name: "Hindalco Industries", Price: 480.00, Sector: "Metal"},
	{Symbol: "DRREDDY", Name: "Dr Reddys Labs", Price: 5600.00, Sector: "Pharma"},
	{Symbol: "CIPLA", Name: "Cipla", Price: 1200.00, Sector: "Pharma"},
	{Symbol: "DIVISLAB", Name: "Divis Laboratories", Price: 3700.00, Sector: "Pharma"},
	{Symbol: "APOLLOHOSP", Name: "Apollo Hospitals", Price: 5200.00, Sector: "Healthcare"},
	{Symbol: "EICHERMOT", Name: "Eicher Motors", Price: 3400.00, Sector: "Auto"},
	{Symbol: "BAJAJ-AUTO", Name: "Bajaj Auto", Price: 5100.00, Sector: "Auto"},
	{Symbol: "HEROMOTOCO", Name: "Hero MotoCorp", Price: 3100.00, Sector: "Auto"},
	{Symbol: "TATACONSUM", Name: "Tata Consumer", Price: 900.00, Sector: "FMCG"},
	{Symbol: "NESTLEIND", Name: "Nestle India", Price: 24000.00, Sector: "FMCG"},
	{Symbol: "BRITANNIA", Name: "Britannia", Price: 4800.00, Sector: "FMCG"},
	{Symbol: "TECHM", Name: "Tech Mahindra", Price: 1200.00, Sector: "IT"},
	{Symbol: "LTIM", Name: "LTIMindtree", Price: 5200.00, Sector: "IT"},
	{Symbol: "PIDILITIND", Name: "Pidilite Industries", Price: 2500.00, Sector: "Chemicals"},
	{Symbol: "SBILIFE", Name: "SBI Life Insurance", Price: 1350.00, Sector: "Finance"},
	{Symbol: "HDFCLIFE", Name: "HDFC Life", Price: 650.00, Sector: "Finance"},
	{Symbol: "BAJAJHLDNG", Name: "Bajaj Holdings", Price: 7200.00, Sector: "Finance"},
}
