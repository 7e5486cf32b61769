package catalog

// Default returns the seeded catalog used when no catalog file is
// configured. Amounts are INR per day.
func Default() *Catalog {
	c, err := New(seedItems())
	if err != nil {
		// The seed is validated by tests; a bad seed is a programming error.
		panic(err)
	}
	return c
}

func seedItems() []Item {
	return []Item{
		{
			ID: "dest-victoria-memorial", Kind: KindDestination, Name: "Victoria Memorial",
			Rating: 4.6, Category: "heritage",
			Description: "Marble museum and memorial in Kolkata with colonial era galleries, paintings and manicured gardens",
		},
		{
			ID: "dest-howrah-bridge", Kind: KindDestination, Name: "Howrah Bridge",
			Rating: 4.5, Category: "heritage",
			Description: "Iconic cantilever bridge over the Hooghly river, best seen at sunrise from the Mallick Ghat flower market",
		},
		{
			ID: "dest-dakshineswar", Kind: KindDestination, Name: "Dakshineswar Kali Temple",
			Rating: 4.7, Category: "spiritual",
			Description: "Riverside temple complex dedicated to goddess Kali, associated with Ramakrishna, major pilgrimage site",
		},
		{
			ID: "dest-sundarbans", Kind: KindDestination, Name: "Sundarbans National Park",
			Rating: 4.4, Category: "nature",
			Description: "Mangrove delta and tiger reserve, boat safaris through creeks, birdwatching and village homestays",
		},
		{
			ID: "dest-darjeeling", Kind: KindDestination, Name: "Darjeeling",
			Rating: 4.6, Category: "nature",
			Description: "Himalayan hill town famous for tea gardens, the toy train and Kanchenjunga sunrise views from Tiger Hill",
		},
		{
			ID: "dest-taj-mahal", Kind: KindDestination, Name: "Taj Mahal",
			Rating: 4.9, Category: "heritage",
			Description: "White marble mausoleum in Agra, UNESCO world heritage site and the most visited monument in India",
		},
		{
			ID: "dest-varanasi", Kind: KindDestination, Name: "Varanasi Ghats",
			Rating: 4.5, Category: "spiritual",
			Description: "Ancient city on the Ganges, evening aarti ceremonies, boat rides past the ghats and narrow old town lanes",
		},
		{
			ID: "dest-hawa-mahal", Kind: KindDestination, Name: "Hawa Mahal",
			Rating: 4.3, Category: "heritage",
			Description: "Pink sandstone palace of winds in Jaipur with latticed windows, close to the city palace and bazaars",
		},
		{
			ID: "dest-kumartuli", Kind: KindDestination, Name: "Kumartuli Artisan Quarter",
			Rating: 4.2, Category: "culture",
			Description: "Potters' neighbourhood in north Kolkata where clay idols for Durga Puja are sculpted, photography walks",
		},
		{
			ID: "dest-college-street", Kind: KindDestination, Name: "College Street",
			Rating: 4.1, Category: "culture",
			Description: "Kolkata's book market and coffee house district, second hand bookstalls and adda culture",
		},
		{
			ID: "itin-kolkata-heritage-3d", Kind: KindItinerary, Name: "Kolkata Heritage Walk",
			Rating: 4.5, DurationDays: 3, CostPerDay: 2800,
			Activities:  []string{"Victoria Memorial tour", "Howrah Bridge sunrise walk", "tram ride through north Kolkata", "Kumartuli artisan visit", "street food trail"},
			Description: "Three days of colonial architecture, river ghats and Bengali food in Kolkata",
		},
		{
			ID: "itin-darjeeling-5d", Kind: KindItinerary, Name: "Darjeeling Tea and Toy Train",
			Rating: 4.4, DurationDays: 5, CostPerDay: 3500,
			Activities:  []string{"Tiger Hill sunrise", "tea estate tasting", "Himalayan railway ride", "monastery visits", "Mall Road walk"},
			Description: "Five day hill escape with tea gardens and mountain views",
		},
		{
			ID: "itin-golden-triangle-6d", Kind: KindItinerary, Name: "Golden Triangle Express",
			Rating: 4.6, DurationDays: 6, CostPerDay: 5200,
			Activities:  []string{"Taj Mahal at dawn", "Agra Fort", "Jaipur city palace", "Hawa Mahal", "Delhi old city food walk"},
			Description: "Delhi, Agra and Jaipur heritage circuit over six days",
		},
		{
			ID: "itin-sundarbans-2d", Kind: KindItinerary, Name: "Sundarbans Weekend Safari",
			Rating: 4.2, DurationDays: 2, CostPerDay: 2200,
			Activities:  []string{"mangrove boat safari", "watchtower wildlife spotting", "village walk", "river sunset"},
			Description: "Short mangrove and tiger reserve break from Kolkata",
		},
		{
			ID: "itin-varanasi-spiritual-4d", Kind: KindItinerary, Name: "Varanasi Spiritual Circuit",
			Rating: 4.3, DurationDays: 4, CostPerDay: 2400,
			Activities:  []string{"Ganga aarti", "sunrise boat ride", "Sarnath excursion", "old town walk", "classical music evening"},
			Description: "Four days of ghats, temples and music in Varanasi",
		},
		{
			ID: "guide-arup", Kind: KindGuide, Name: "Arup Chatterjee",
			Rating: 4.8, PricePerDay: 2500,
			Specialties: []string{"heritage", "colonial architecture", "photography"},
			Languages:   []string{"Bengali", "English", "Hindi"},
		},
		{
			ID: "guide-meera", Kind: KindGuide, Name: "Meera Sharma",
			Rating: 4.7, PricePerDay: 3000,
			Specialties: []string{"food", "culture", "markets"},
			Languages:   []string{"Hindi", "English"},
		},
		{
			ID: "guide-tenzin", Kind: KindGuide, Name: "Tenzin Lama",
			Rating: 4.6, PricePerDay: 2800,
			Specialties: []string{"trekking", "nature", "monasteries"},
			Languages:   []string{"Nepali", "English", "Hindi"},
		},
		{
			ID: "guide-farhan", Kind: KindGuide, Name: "Farhan Ali",
			Rating: 4.5, PricePerDay: 2200,
			Specialties: []string{"heritage", "spiritual", "history"},
			Languages:   []string{"Urdu", "Hindi", "English"},
		},
	}
}
