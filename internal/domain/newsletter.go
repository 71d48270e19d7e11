package domain

// DeliveredArticle is a URL that went out in a newsletter.
type DeliveredArticle struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
	Reason string `json:"reason,omitempty"`
}

// Newsletter is the delivery record read back by the duplicate index.
type Newsletter struct {
	RunID            string             `json:"run_id,omitempty"`
	Timestamp        string             `json:"timestamp"`
	AcademicArticles []DeliveredArticle `json:"academic_articles"`
	TechNewsArticles []DeliveredArticle `json:"technews_articles"`
}
