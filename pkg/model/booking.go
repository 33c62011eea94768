package model

const (
	StatusUpcoming  = "upcoming"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Booking is a single scheduled appointment. A copy lives in the owning
// user's booking list and a second, denormalized copy in the global index
// read by the staff dashboard. Date is an ISO date string and Time a display
// string ("2:00 PM"); Price keeps its currency formatting ("$45") because
// the loyalty ledger derives the points award from it.
type Booking struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserPhone string `json:"userPhone"`
	Service   string `json:"service"`
	Barber    string `json:"barber"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Price     string `json:"price"`
	Duration  string `json:"duration"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}
