package domain

// Courier is a delivery worker identity that receives order assignments.
type Courier struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Merchant is a business identity orders are picked up from.
type Merchant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
