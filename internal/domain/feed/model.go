package feed

import "time"

// Post es una publicación del feed de la comunidad.
type Post struct {
	ID           string
	AuthorUserID string
	Body         string
	CreatedAt    time.Time
}
