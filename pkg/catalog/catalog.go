// Package catalog holds the shop's service/barber inventory. It is injected
// configuration: deployments override the built-in list with a JSON file so
// catalog changes do not require a redeploy. Booking validation consults it;
// slot-conflict detection is deliberately out of scope.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DurationMin int    `json:"durationMin"`
	Price       string `json:"price"`
}

type Barber struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

type Catalog struct {
	Services []Service `json:"services"`
	Barbers  []Barber  `json:"barbers"`
	// Opening hours in 24h HH:MM, used to generate display time slots.
	OpensAt  string `json:"opensAt"`
	ClosesAt string `json:"closesAt"`
}

// Load reads a catalog from the given JSON file, or returns the built-in
// default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(c.Services) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no services", path)
	}
	if c.OpensAt == "" {
		c.OpensAt = "09:00"
	}
	if c.ClosesAt == "" {
		c.ClosesAt = "19:00"
	}
	return &c, nil
}

func (c *Catalog) HasService(name string) bool {
	for _, s := range c.Services {
		if s.Name == name {
			return true
		}
	}
	return false
}

func (c *Catalog) HasBarber(name string) bool {
	for _, b := range c.Barbers {
		if b.Name == name {
			return true
		}
	}
	return false
}

func (c *Catalog) ServiceByName(name string) (Service, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// TimeSlots generates the display slots ("9:00 AM", "9:20 AM", ...) for a
// service duration across the opening hours.
func (c *Catalog) TimeSlots(durationMin int) []string {
	if durationMin <= 0 {
		durationMin = 20
	}

	opens, err := time.Parse("15:04", c.OpensAt)
	if err != nil {
		return nil
	}
	closes, err := time.Parse("15:04", c.ClosesAt)
	if err != nil {
		return nil
	}

	var slots []string
	for t := opens; !t.After(closes.Add(-time.Duration(durationMin) * time.Minute)); t = t.Add(time.Duration(durationMin) * time.Minute) {
		slots = append(slots, t.Format("3:04 PM"))
	}
	return slots
}
