package domain

// Plan represents a purchasable credit bundle.
type Plan struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Credits  int64  `json:"credits"`
	Amount   int64  `json:"amount"`   // price in whole currency units (INR)
	Currency string `json:"currency"`
}

// AvailablePlans returns all purchasable plans.
func AvailablePlans() []Plan {
	return []Plan{
		{
			ID:       "basic",
			Name:     "Basic",
			Credits:  100,
			Amount:   300,
			Currency: "INR",
		},
		{
			ID:       "premium",
			Name:     "Premium",
			Credits:  300,
			Amount:   800,
			Currency: "INR",
		},
	}
}

// GetPlan returns the plan for a given ID. The second return value is
// false when no such plan exists.
func GetPlan(id string) (Plan, bool) {
	for _, p := range AvailablePlans() {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
