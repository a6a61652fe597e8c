package catalog

import "testing"

func TestMapDestinations(t *testing.T) {
	file := &File{
		Destinations: []DestinationProps{
			{ID: 1, Name: "Pyramids of Giza", Location: "Giza", Rating: 4.9},
			{ID: 0, Name: "No ID"},          // skipped
			{ID: 3, Name: ""},               // skipped
			{ID: 4, Name: "Over", Rating: 7}, // clamped
		},
	}

	dests, err := NewMapper().MapDestinations(file)
	if err != nil {
		t.Fatalf("MapDestinations failed: %v", err)
	}

	if len(dests) != 2 {
		t.Fatalf("expected 2 destinations, got %d", len(dests))
	}
	if dests[0].ID != 1 || dests[0].Name != "Pyramids of Giza" {
		t.Errorf("unexpected first destination: %+v", dests[0])
	}
	if dests[1].Rating != 5 {
		t.Errorf("expected rating clamped to 5, got %v", dests[1].Rating)
	}
}

func TestMapDestinationsAllInvalid(t *testing.T) {
	file := &File{
		Destinations: []DestinationProps{
			{ID: -1, Name: "Negative"},
			{ID: 2},
		},
	}

	if _, err := NewMapper().MapDestinations(file); err == nil {
		t.Fatal("expected error when no destination is valid")
	}
}

func TestMapComments(t *testing.T) {
	file := &File{
		Comments: []CommentProps{
			{ID: 1, User: "Mona", Rating: 5, Text: "Unforgettable."},
			{ID: 2, User: ""}, // skipped
		},
	}

	comments := NewMapper().MapComments(file)
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	if comments[0].User != "Mona" || comments[0].Rating != 5 {
		t.Errorf("unexpected comment: %+v", comments[0])
	}
}
