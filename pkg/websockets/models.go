package websockets

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeStockUpdate is for messages that update an item's displayed stock.
	MessageTypeStockUpdate MessageType = "stockUpdate"
	// MessageTypeBalanceUpdate is for messages that update a buyer's displayed balance.
	MessageTypeBalanceUpdate MessageType = "balanceUpdate"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// StockUpdatePayload is the payload for a stockUpdate message.
type StockUpdatePayload struct {
	ItemName string `json:"item_name"`
	Stock    int64  `json:"stock"`
	Price    int64  `json:"price"`
}

// BalanceUpdatePayload is the payload for a balanceUpdate message.
type BalanceUpdatePayload struct {
	UserID     string `json:"user_id"`
	NewBalance int64  `json:"new_balance"`
}
