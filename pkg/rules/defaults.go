package rules

// DefaultConfig is the car price rule set: the fields a price model is
// trained on, the personal or irrelevant columns removed before anything
// leaves the ingestion zone, and the optional columns worth imputing.
func DefaultConfig() Config {
	var cfg Config
	cfg.Mandatory = []Field{
		{Name: "CarName", Type: String},
		{Name: "fueltype", Type: String},
		{Name: "carbody", Type: String},
		{Name: "enginesize", Type: Numeric},
		{Name: "horsepower", Type: Numeric},
		{Name: "wheelbase", Type: Numeric},
		{Name: "carlength", Type: Numeric},
		{Name: "carwidth", Type: Numeric},
		{Name: "curbweight", Type: Numeric},
		{Name: "cylindernumber", Type: Numeric},
		{Name: "Price", Type: Numeric},
	}
	cfg.Drop = []string{"car_ID", "ownername", "owneremail", "dealershipaddress", "saledate", "iban"}
	cfg.Impute.Median = []string{"compressionratio", "peakrpm", "citympg", "highwaympg"}
	cfg.Impute.Mode = []string{"aspiration", "doornumber", "drivewheel", "enginelocation", "color"}
	cfg.Normalize.IntegralSuffix = []string{"cylindernumber"}
	return cfg
}

// Default returns the built-in rule set.
func Default() *Rules {
	r, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return r
}
