package mock

import "github.com/cinefinder/cinefinder/internal/metadata/tmdb"

var (
	genreAction    = tmdb.Genre{ID: 28, Name: "Azione"}
	genreAdventure = tmdb.Genre{ID: 12, Name: "Avventura"}
	genreDrama     = tmdb.Genre{ID: 18, Name: "Dramma"}
	genreSciFi     = tmdb.Genre{ID: 878, Name: "Fantascienza"}
	genreWestern   = tmdb.Genre{ID: 37, Name: "Western"}
	genreCrime     = tmdb.Genre{ID: 80, Name: "Crime"}
)

var mockMovies = []tmdb.MovieDetails{
	{
		ID: 27205, Title: "Inception", OriginalTitle: "Inception", ReleaseDate: "2010-07-15",
		Overview:    "Dom Cobb è un ladro con una rara abilità: entrare nei sogni altrui per rubare segreti dal subconscio.",
		PosterPath:  ptr("/9gk7adHYeDvHkCSEqAvQNLV5Uge.jpg"),
		VoteAverage: 8.4, VoteCount: 36000, Popularity: 95.2, Runtime: 148,
		Genres: []tmdb.Genre{genreAction, genreSciFi, genreAdventure},
	},
	{
		ID: 155, Title: "Il cavaliere oscuro", OriginalTitle: "The Dark Knight", ReleaseDate: "2008-07-16",
		Overview:    "Batman alza il tiro nella sua guerra al crimine, ma un nuovo criminale semina il caos a Gotham.",
		PosterPath:  ptr("/qJ2tW6WMUDux911r6m7haRef0WH.jpg"),
		VoteAverage: 8.5, VoteCount: 32000, Popularity: 120.4, Runtime: 152,
		Genres: []tmdb.Genre{genreDrama, genreAction, genreCrime},
	},
	{
		ID: 157336, Title: "Interstellar", OriginalTitle: "Interstellar", ReleaseDate: "2014-11-05",
		Overview:    "Un gruppo di esploratori viaggia attraverso un wormhole alla ricerca di una nuova casa per l'umanità.",
		PosterPath:  ptr("/gEU2QniE6E77NI6lCU6MxlNBvIx.jpg"),
		VoteAverage: 8.4, VoteCount: 34000, Popularity: 140.1, Runtime: 169,
		Genres: []tmdb.Genre{genreAdventure, genreDrama, genreSciFi},
	},
	{
		ID: 77, Title: "Memento", OriginalTitle: "Memento", ReleaseDate: "2000-10-11",
		Overview:    "Un uomo che non riesce a formare nuovi ricordi cerca l'assassino di sua moglie.",
		PosterPath:  ptr("/yuNs09hvpHVU1cBTCAk9zxsL2oW.jpg"),
		VoteAverage: 8.2, VoteCount: 14000, Popularity: 40.3, Runtime: 113,
		Genres: []tmdb.Genre{{ID: 9648, Name: "Mistero"}},
	},
	{
		ID: 13, Title: "Forrest Gump", OriginalTitle: "Forrest Gump", ReleaseDate: "1994-06-23",
		Overview:    "La storia straordinaria di un uomo semplice che attraversa decenni di storia americana.",
		PosterPath:  ptr("/saHP97rTPS5eLmrLQEcANmKrsFl.jpg"),
		VoteAverage: 8.5, VoteCount: 27000, Popularity: 80.7, Runtime: 142,
		Genres: []tmdb.Genre{{ID: 35, Name: "Commedia"}, genreDrama},
	},
	{
		ID: 8358, Title: "Cast Away", OriginalTitle: "Cast Away", ReleaseDate: "2000-12-22",
		Overview:    "Un dirigente della FedEx sopravvive a un incidente aereo e resta bloccato su un'isola deserta.",
		PosterPath:  ptr("/7lLJgKnAicAcR5UEuo8xhSMj18w.jpg"),
		VoteAverage: 7.7, VoteCount: 11000, Popularity: 55.0, Runtime: 143,
		Genres: []tmdb.Genre{genreAdventure, genreDrama},
	},
	{
		ID: 429, Title: "Il buono, il brutto, il cattivo", OriginalTitle: "Il buono, il brutto, il cattivo", ReleaseDate: "1966-12-23",
		Overview:    "Tre pistoleri si contendono un tesoro sepolto durante la guerra di secessione americana.",
		PosterPath:  ptr("/bX2xnavhMYjWDoZp1VM6VnU1xwe.jpg"),
		VoteAverage: 8.5, VoteCount: 8500, Popularity: 45.6, Runtime: 178,
		Genres: []tmdb.Genre{genreWestern},
	},
	{
		ID: 391, Title: "Per un pugno di dollari", OriginalTitle: "Per un pugno di dollari", ReleaseDate: "1964-09-12",
		Overview:    "Uno straniero arriva in un villaggio di confine diviso tra due famiglie rivali.",
		PosterPath:  nil,
		VoteAverage: 7.9, VoteCount: 4200, Popularity: 20.2, Runtime: 99,
		Genres: []tmdb.Genre{genreWestern},
	},
}

var mockPeople = []tmdb.PersonResult{
	{ID: 525, Name: "Christopher Nolan", KnownForDepartment: "Directing", Popularity: 30.1},
	{ID: 31, Name: "Tom Hanks", KnownForDepartment: "Acting", Popularity: 60.5},
	{ID: 6193, Name: "Leonardo DiCaprio", KnownForDepartment: "Acting", Popularity: 70.2},
	{ID: 4385, Name: "Sergio Leone", KnownForDepartment: "Directing", Popularity: 12.8},
	{ID: 190, Name: "Clint Eastwood", KnownForDepartment: "Acting", Popularity: 40.9},
}

var mockFilmographies = map[int]filmography{
	525:  {directed: []int{27205, 155, 157336, 77}},
	31:   {cast: []int{13, 8358}},
	6193: {cast: []int{27205}},
	4385: {directed: []int{429, 391}},
	190:  {cast: []int{429, 391}},
}

var mockMovieCredits = map[int]tmdb.CreditsResponse{
	27205: {
		Cast: []tmdb.CastMember{
			{ID: 6193, Name: "Leonardo DiCaprio", Character: "Dom Cobb", Order: 0},
			{ID: 24045, Name: "Joseph Gordon-Levitt", Character: "Arthur", Order: 1},
			{ID: 27578, Name: "Elliot Page", Character: "Ariadne", Order: 2},
			{ID: 2524, Name: "Tom Hardy", Character: "Eames", Order: 3},
		},
		Crew: []tmdb.CrewMember{{ID: 525, Name: "Christopher Nolan", Job: "Director", Department: "Directing"}},
	},
	155: {
		Cast: []tmdb.CastMember{
			{ID: 3894, Name: "Christian Bale", Character: "Bruce Wayne", Order: 0},
			{ID: 1810, Name: "Heath Ledger", Character: "Joker", Order: 1},
		},
		Crew: []tmdb.CrewMember{{ID: 525, Name: "Christopher Nolan", Job: "Director", Department: "Directing"}},
	},
	157336: {
		Cast: []tmdb.CastMember{
			{ID: 10297, Name: "Matthew McConaughey", Character: "Cooper", Order: 0},
			{ID: 1813, Name: "Anne Hathaway", Character: "Brand", Order: 1},
		},
		Crew: []tmdb.CrewMember{{ID: 525, Name: "Christopher Nolan", Job: "Director", Department: "Directing"}},
	},
	13: {
		Cast: []tmdb.CastMember{{ID: 31, Name: "Tom Hanks", Character: "Forrest Gump", Order: 0}},
		Crew: []tmdb.CrewMember{{ID: 24, Name: "Robert Zemeckis", Job: "Director", Department: "Directing"}},
	},
	8358: {
		Cast: []tmdb.CastMember{{ID: 31, Name: "Tom Hanks", Character: "Chuck Noland", Order: 0}},
		Crew: []tmdb.CrewMember{{ID: 24, Name: "Robert Zemeckis", Job: "Director", Department: "Directing"}},
	},
	429: {
		Cast: []tmdb.CastMember{
			{ID: 190, Name: "Clint Eastwood", Character: "Il Biondo", Order: 0},
			{ID: 4078, Name: "Eli Wallach", Character: "Tuco", Order: 1},
			{ID: 4077, Name: "Lee Van Cleef", Character: "Sentenza", Order: 2},
		},
		Crew: []tmdb.CrewMember{{ID: 4385, Name: "Sergio Leone", Job: "Director", Department: "Directing"}},
	},
}

var mockTrailers = map[int]string{
	27205:  "YoHD9XEInc0",
	155:    "EXeTwQWrcwY",
	157336: "zSWdZVtXT7E",
}

var mockProviders = map[int]tmdb.WatchProviderRegion{
	27205: {
		Link:     "https://www.themoviedb.org/movie/27205/watch?locale=IT",
		Flatrate: []tmdb.WatchProvider{{ProviderID: 8, ProviderName: "Netflix", LogoPath: "/pbpMk2JmcoNnQwx5JGpXngfoWtp.jpg"}},
		Rent:     []tmdb.WatchProvider{{ProviderID: 2, ProviderName: "Apple TV", LogoPath: "/9ghgSC0MA082EL6HLCW3GalykFD.jpg"}},
	},
	155: {
		Link:     "https://www.themoviedb.org/movie/155/watch?locale=IT",
		Flatrate: []tmdb.WatchProvider{{ProviderID: 1899, ProviderName: "Max", LogoPath: "/6Q3ZYUNA9Hsgj6iWnVsw2gR5V6z.jpg"}},
		Buy:      []tmdb.WatchProvider{{ProviderID: 35, ProviderName: "Rakuten TV"}},
	},
	429: {
		Link: "https://www.themoviedb.org/movie/429/watch?locale=IT",
		Free: []tmdb.WatchProvider{{ProviderID: 109, ProviderName: "RaiPlay"}},
	},
}
