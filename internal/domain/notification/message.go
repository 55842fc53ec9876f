package notification

// BrandColor is used for every relayed event.
const BrandColor = "#6772e5"

// Message is the chat notification rendered for one verified event.
type Message struct {
	Color  string
	Title  string
	Fields []Field
}

// Field is a single name/value row. Order is preserved on delivery.
type Field struct {
	Name  string
	Value string
}
