package documents

// Match is one row returned by the document similarity RPC.
type Match struct {
	ID         string  `gorm:"column:id" json:"id"`
	Content    string  `gorm:"column:content" json:"content"`
	Similarity float64 `gorm:"column:similarity" json:"similarity"`
}
