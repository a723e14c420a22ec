package catalog

// reference is the built-in list of popular geostationary TV satellites.
// Longitudes are degrees east; west is negative. Callers get copies
// through Default.
var reference = []Satellite{
	// North America
	{Name: "Galaxy 19", LongitudeDeg: -97.0, Region: "North America", Bands: "Ku-band", Operator: "DirectTV"},
	{Name: "SES-1", LongitudeDeg: -101.0, Region: "North America", Bands: "C/Ku-band", Operator: "SES"},
	{Name: "AMC-15", LongitudeDeg: -105.0, Region: "North America", Bands: "Ku-band", Operator: "SES"},
	{Name: "Echostar 7", LongitudeDeg: -119.0, Region: "North America", Bands: "Dish Network", Operator: "DISH"},
	{Name: "DirectTV 7S", LongitudeDeg: -119.0, Region: "North America", Bands: "DirectTV", Operator: "DirecTV"},

	// Europe & Middle East
	{Name: "Astra 19.2E", LongitudeDeg: 19.2, Region: "Europe", Bands: "Ku-band", Operator: "SES"},
	{Name: "Astra 28.2E", LongitudeDeg: 28.2, Region: "Europe/UK", Bands: "Ku-band", Operator: "SES"},
	{Name: "Hotbird 13E", LongitudeDeg: 13.0, Region: "Europe", Bands: "Ku-band", Operator: "Eutelsat"},
	{Name: "Eutelsat 7E", LongitudeDeg: 7.0, Region: "Europe/MENA", Bands: "Ku-band", Operator: "Eutelsat"},
	{Name: "Nilesat 201", LongitudeDeg: 7.0, Region: "MENA", Bands: "Ku-band", Operator: "Nilesat"},
	{Name: "Arabsat 5A", LongitudeDeg: 30.5, Region: "MENA", Bands: "Ku/C-band", Operator: "Arabsat"},
	{Name: "Badrsat 26E", LongitudeDeg: 26.0, Region: "MENA", Bands: "Ku-band", Operator: "Nilesat"},

	// Africa
	{Name: "Eutelsat 36E", LongitudeDeg: 36.0, Region: "Africa/Europe", Bands: "Ku-band", Operator: "Eutelsat"},
	{Name: "Intelsat 20", LongitudeDeg: 68.5, Region: "Africa", Bands: "C/Ku-band", Operator: "Intelsat"},
	{Name: "NSS-7", LongitudeDeg: -20.0, Region: "Africa", Bands: "C/Ku-band", Operator: "SES"},

	// Asia
	{Name: "Insat 4A", LongitudeDeg: 83.0, Region: "Asia", Bands: "C/Ku-band", Operator: "ISRO"},
	{Name: "Asiasat 5", LongitudeDeg: 100.5, Region: "Asia", Bands: "C/Ku-band", Operator: "AsiaSat"},
	{Name: "Thaicom 5", LongitudeDeg: 78.5, Region: "Asia", Bands: "C/Ku-band", Operator: "Thaicom"},
	{Name: "Vinasat 1", LongitudeDeg: 132.0, Region: "Asia", Bands: "C/Ku-band", Operator: "Vietnam"},

	// South America
	{Name: "Star One C2", LongitudeDeg: -70.0, Region: "South America", Bands: "C/Ku-band", Operator: "Star One"},
	{Name: "Telstar 14R", LongitudeDeg: -63.0, Region: "South America", Bands: "C/Ku-band", Operator: "Telesat"},

	// Australia & Pacific
	{Name: "Optus D2", LongitudeDeg: 152.0, Region: "Australia", Bands: "Ku-band", Operator: "Optus"},
	{Name: "Intelsat 8", LongitudeDeg: 166.0, Region: "Pacific", Bands: "C-band", Operator: "Intelsat"},
}
