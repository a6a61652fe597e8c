package catalog

import (
	"fmt"

	"github.com/degyhq/degy/internal/domain"
)

// Mapper converts authored catalog entries to domain entities
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapDestinations converts authored destinations to []domain.Destination.
// Entries without a positive ID or a name are skipped.
func (m *Mapper) MapDestinations(file *File) ([]*domain.Destination, error) {
	var dests []*domain.Destination

	for _, props := range file.Destinations {
		if props.ID <= 0 || props.Name == "" {
			continue
		}

		dest := &domain.Destination{
			ID:          props.ID,
			Name:        props.Name,
			Location:    props.Location,
			Image:       props.Image,
			Price:       props.Price,
			Duration:    props.Duration,
			Description: props.Description,
			Rating:      clampRating(props.Rating),
			Reviews:     props.Reviews,
		}

		dests = append(dests, dest)
	}

	if len(dests) == 0 {
		return nil, fmt.Errorf("no valid destinations found in catalog file")
	}

	return dests, nil
}

// MapComments converts authored comments to []domain.Comment.
// Entries without a positive ID or an author are skipped.
func (m *Mapper) MapComments(file *File) []*domain.Comment {
	var comments []*domain.Comment

	for _, props := range file.Comments {
		if props.ID <= 0 || props.User == "" {
			continue
		}

		comments = append(comments, &domain.Comment{
			ID:       props.ID,
			User:     props.User,
			Avatar:   props.Avatar,
			Rating:   props.Rating,
			Text:     props.Text,
			Verified: props.Verified,
		})
	}

	return comments
}

func clampRating(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 5:
		return 5
	default:
		return r
	}
}
