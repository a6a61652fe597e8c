package catalog

// File represents the top-level structure of destinations.yaml
type File struct {
	Destinations []DestinationProps `yaml:"destinations"`
	Comments     []CommentProps     `yaml:"comments,omitempty"`
}

// DestinationProps contains the authored destination properties
type DestinationProps struct {
	ID          int     `yaml:"id"`
	Name        string  `yaml:"name"`
	Location    string  `yaml:"location"`
	Image       string  `yaml:"image,omitempty"`
	Price       string  `yaml:"price,omitempty"`
	Duration    string  `yaml:"duration,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Rating      float64 `yaml:"rating,omitempty"`
	Reviews     int     `yaml:"reviews,omitempty"`
}

// CommentProps contains an authored traveller comment
type CommentProps struct {
	ID       int    `yaml:"id"`
	User     string `yaml:"user"`
	Avatar   string `yaml:"avatar,omitempty"`
	Rating   int    `yaml:"rating"`
	Text     string `yaml:"text"`
	Verified bool   `yaml:"verified,omitempty"`
}
