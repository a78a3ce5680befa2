// Package tmdb provides read-only access to the external movie metadata
// provider. This file defines the response models, consumed as-is from the
// provider's JSON payloads.
package tmdb

// Movie is a catalog entry as it appears in list responses (trending,
// popular, discover, search, similar).
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

// MovieList is the provider's standard paged list envelope.
type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is a catalog genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the envelope of the genre catalog endpoint.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// MovieDetail is the full detail payload for a single movie. List fields
// are embedded; detail responses carry resolved genres instead of ids.
type MovieDetail struct {
	Movie
	Tagline          string  `json:"tagline"`
	Runtime          int     `json:"runtime"`
	Status           string  `json:"status"`
	Budget           int     `json:"budget"`
	Revenue          int     `json:"revenue"`
	ImdbID           string  `json:"imdb_id"`
	Homepage         string  `json:"homepage"`
	OriginalLanguage string  `json:"original_language"`
	Genres           []Genre `json:"genres,omitempty"`
}

// CastMember is one entry of a movie's cast list.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// Credits is the cast/crew payload for a movie. Only the cast is consumed.
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
}

// Video is a trailer, teaser or clip hosted on an external site.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// VideoList is the envelope of the videos endpoint.
type VideoList struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}
