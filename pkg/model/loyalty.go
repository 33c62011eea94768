package model

const (
	TransactionEarned   = "earned"
	TransactionRedeemed = "redeemed"
)

// PointsTransaction is one entry in a user's append-only loyalty history.
// Points is signed: positive for earned, negative for redeemed.
type PointsTransaction struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Points      int    `json:"points"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// UserStats is the aggregate view returned to the profile screen.
type UserStats struct {
	Role          string              `json:"role"`
	Points        int                 `json:"points"`
	Visits        int                 `json:"visits"`
	Bookings      []Booking           `json:"bookings"`
	PointsHistory []PointsTransaction `json:"pointsHistory"`
}
