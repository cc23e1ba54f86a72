package domain

// SampleMovies returns the built-in dataset used when the backend cannot be
// reached and when seeding an empty table. Each call returns a fresh slice.
func SampleMovies() []Movie {
	return []Movie{
		{
			ID:          "1",
			Title:       "The Shawshank Redemption",
			Director:    "Frank Darabont",
			Year:        1994,
			Rating:      9.3,
			Poster:      "https://m.media-amazon.com/images/M/MV5BNDE3ODcxYzMtY2YzZC00NmNlLWJiNDMtZDViZWM2MzIxZDYwXkEyXkFqcGdeQXVyNjAwNDUxODI@._V1_.jpg",
			Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
		},
		{
			ID:          "2",
			Title:       "The Godfather",
			Director:    "Francis Ford Coppola",
			Year:        1972,
			Rating:      9.2,
			Poster:      "https://m.media-amazon.com/images/M/MV5BM2MyNjYxNmUtYTAwNi00MTYxLWJmNWYtYzZlODY3ZTk3OTFlXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_.jpg",
			Description: "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
		},
		{
			ID:          "3",
			Title:       "The Dark Knight",
			Director:    "Christopher Nolan",
			Year:        2008,
			Rating:      9.0,
			Poster:      "https://m.media-amazon.com/images/M/MV5BMTMxNTMwODM0NF5BMl5BanBnXkFtZTcwODAyMTk2Mw@@._V1_.jpg",
			Description: "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
		},
	}
}
