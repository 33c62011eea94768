package catalog

// Default returns the shop's standing catalog. Deployments that need a
// different lineup point CATALOG_PATH at a JSON file instead.
func Default() *Catalog {
	return &Catalog{
		OpensAt:  "09:00",
		ClosesAt: "19:00",
		Services: []Service{
			{ID: "1", Name: "Haircut & Style", DurationMin: 20, Price: "$45"},
			{ID: "2", Name: "Beard Trim/Beard Trim Shave", DurationMin: 20, Price: "$30"},
			{ID: "3", Name: "Haircut & Beard Trim", DurationMin: 40, Price: "$65"},
			{ID: "4", Name: "Senior Citizen/Buzz", DurationMin: 20, Price: "$30"},
			{ID: "5", Name: "Kids Haircut (under 12)", DurationMin: 20, Price: "$40"},
			{ID: "6", Name: "Hot Towel Shave", DurationMin: 20, Price: "$40"},
			{ID: "7", Name: "Haircut and Shave", DurationMin: 40, Price: "$70"},
			{ID: "8", Name: "Head Shave", DurationMin: 20, Price: "$40"},
			{ID: "9", Name: "Line Up", DurationMin: 20, Price: "$20"},
			{ID: "10", Name: "Haircut (Long hair)", DurationMin: 20, Price: "$50"},
		},
		Barbers: []Barber{
			{ID: "1", Name: "Dardan", Title: "Master Barber"},
			{ID: "2", Name: "Jay", Title: "Master Barber"},
			{ID: "3", Name: "Mike", Title: "Master Barber"},
			{ID: "4", Name: "Ronnie", Title: "Master Barber"},
			{ID: "5", Name: "Nick", Title: "Master Barber"},
			{ID: "6", Name: "Melo", Title: "Master Barber"},
			{ID: "7", Name: "Sam", Title: "Master Barber"},
			{ID: "8", Name: "Ellie", Title: "Master Barber"},
			{ID: "9", Name: "Max", Title: "Master Barber"},
		},
	}
}
