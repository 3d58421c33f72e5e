package tmdb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultTimeout  = 10 * time.Second
	requestInterval = 100 * time.Millisecond // spacing between requests to stay under API limits
)

// Client handles all interactions with the TMDB API
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	lastRequest time.Time
}

// SearchResult represents a single item from the multi-search endpoint.
// Movies carry title/release_date, series carry name/first_air_date.
type SearchResult struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type"` // movie | tv
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	PosterPath       string  `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
}

// DisplayTitle returns the movie title or series name, whichever is set.
func (r SearchResult) DisplayTitle() string {
	if r.MediaType == "tv" && r.Name != "" {
		return r.Name
	}
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// ReleaseOrAirDate returns the release date for movies and the first air
// date for series.
func (r SearchResult) ReleaseOrAirDate() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// Details is the normalized detail payload for a movie or series.
// Fields left at their zero value were absent from the response.
type Details struct {
	ID             int
	Title          string
	PosterPath     string
	ReleaseDate    string
	Language       string
	Country        string
	Genres         []string
	RuntimeMinutes int // per-episode runtime for series
	VoteAverage    float64
	Overview       string
	EpisodeCount   int // series only
	ExternalRef    string
}

// Credits holds cast and crew lists for a title
type Credits struct {
	Cast []CastCredit `json:"cast"`
	Crew []CrewCredit `json:"crew"`
}

// CastCredit is one cast entry from the credits endpoint
type CastCredit struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewCredit is one crew entry from the credits endpoint
type CrewCredit struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type spokenLanguage struct {
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

type productionCountry struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

// movieDetails is the raw /movie/{id} response shape
type movieDetails struct {
	ID                  int                 `json:"id"`
	Title               string              `json:"title"`
	PosterPath          string              `json:"poster_path"`
	ReleaseDate         string              `json:"release_date"`
	SpokenLanguages     []spokenLanguage    `json:"spoken_languages"`
	ProductionCountries []productionCountry `json:"production_countries"`
	Genres              []genre             `json:"genres"`
	Runtime             int                 `json:"runtime"`
	VoteAverage         float64             `json:"vote_average"`
	Overview            string              `json:"overview"`
	IMDBID              string              `json:"imdb_id"`
}

// tvDetails is the raw /tv/{id} response shape
type tvDetails struct {
	ID                  int                 `json:"id"`
	Name                string              `json:"name"`
	PosterPath          string              `json:"poster_path"`
	FirstAirDate        string              `json:"first_air_date"`
	SpokenLanguages     []spokenLanguage    `json:"spoken_languages"`
	ProductionCountries []productionCountry `json:"production_countries"`
	Genres              []genre             `json:"genres"`
	EpisodeRunTime      []int               `json:"episode_run_time"`
	NumberOfEpisodes    int                 `json:"number_of_episodes"`
	VoteAverage         float64             `json:"vote_average"`
	Overview            string              `json:"overview"`
	ExternalIDs         struct {
		IMDBID string `json:"imdb_id"`
	} `json:"external_ids"`
}

// searchResponse wraps the TMDB multi-search API response
type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// APIError represents an error returned by the TMDB API
type APIError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TMDB API error (code %d): %s", e.StatusCode, e.StatusMessage)
}

// NewClient creates a new TMDB API client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithHTTP creates a new TMDB API client with a custom HTTP client
func NewClientWithHTTP(apiKey string, httpClient *http.Client) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

// SetBaseURL allows overriding the base URL (useful for testing)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SearchMulti searches movies and series by free-text query.
// Calls the TMDB /search/multi API; results are filtered to the movie
// and tv media types (people and other types are dropped).
func (c *Client) SearchMulti(query string) ([]SearchResult, error) {
	if query == "" {
		return []SearchResult{}, nil
	}

	c.rateLimit()

	endpoint := fmt.Sprintf("%s/search/multi?api_key=%s&query=%s",
		c.baseURL, c.apiKey, url.QueryEscape(query))

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to search titles: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	filtered := make([]SearchResult, 0, len(result.Results))
	for _, r := range result.Results {
		if r.MediaType == "movie" || r.MediaType == "tv" {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}

// GetMovieDetails fetches detailed information for a movie.
// Calls the TMDB /movie/{id} API.
func (c *Client) GetMovieDetails(id int) (*Details, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid TMDB ID: %d", id)
	}

	c.rateLimit()

	endpoint := fmt.Sprintf("%s/movie/%d?api_key=%s", c.baseURL, id, c.apiKey)

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie details: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var raw movieDetails
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode movie details response: %w", err)
	}

	return &Details{
		ID:             raw.ID,
		Title:          raw.Title,
		PosterPath:     raw.PosterPath,
		ReleaseDate:    raw.ReleaseDate,
		Language:       firstLanguage(raw.SpokenLanguages),
		Country:        firstCountry(raw.ProductionCountries),
		Genres:         genreNames(raw.Genres),
		RuntimeMinutes: raw.Runtime,
		VoteAverage:    raw.VoteAverage,
		Overview:       raw.Overview,
		ExternalRef:    raw.IMDBID,
	}, nil
}

// GetTVDetails fetches detailed information for a series.
// Calls the TMDB /tv/{id} API with external IDs appended.
func (c *Client) GetTVDetails(id int) (*Details, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid TMDB ID: %d", id)
	}

	c.rateLimit()

	endpoint := fmt.Sprintf("%s/tv/%d?api_key=%s&append_to_response=external_ids",
		c.baseURL, id, c.apiKey)

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get TV details: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var raw tvDetails
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode TV details response: %w", err)
	}

	runtime := 0
	if len(raw.EpisodeRunTime) > 0 {
		runtime = raw.EpisodeRunTime[0]
	}

	return &Details{
		ID:             raw.ID,
		Title:          raw.Name,
		PosterPath:     raw.PosterPath,
		ReleaseDate:    raw.FirstAirDate,
		Language:       firstLanguage(raw.SpokenLanguages),
		Country:        firstCountry(raw.ProductionCountries),
		Genres:         genreNames(raw.Genres),
		RuntimeMinutes: runtime,
		VoteAverage:    raw.VoteAverage,
		Overview:       raw.Overview,
		EpisodeCount:   raw.NumberOfEpisodes,
		ExternalRef:    raw.ExternalIDs.IMDBID,
	}, nil
}

// GetDetails fetches details for either kind of title.
func (c *Client) GetDetails(mediaType string, id int) (*Details, error) {
	switch strings.ToLower(mediaType) {
	case "movie":
		return c.GetMovieDetails(id)
	case "tv", "series":
		return c.GetTVDetails(id)
	default:
		return nil, fmt.Errorf("unknown media type: %q", mediaType)
	}
}

// GetCredits fetches cast and crew for a title.
// Calls the TMDB /movie/{id}/credits or /tv/{id}/credits API.
func (c *Client) GetCredits(mediaType string, id int) (*Credits, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid TMDB ID: %d", id)
	}

	var path string
	switch strings.ToLower(mediaType) {
	case "movie":
		path = fmt.Sprintf("/movie/%d/credits", id)
	case "tv", "series":
		path = fmt.Sprintf("/tv/%d/credits", id)
	default:
		return nil, fmt.Errorf("unknown media type: %q", mediaType)
	}

	c.rateLimit()

	endpoint := fmt.Sprintf("%s%s?api_key=%s", c.baseURL, path, c.apiKey)

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get credits: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var credits Credits
	if err := json.NewDecoder(resp.Body).Decode(&credits); err != nil {
		return nil, fmt.Errorf("failed to decode credits response: %w", err)
	}

	return &credits, nil
}

func genreNames(genres []genre) []string {
	if len(genres) == 0 {
		return nil
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func firstLanguage(langs []spokenLanguage) string {
	if len(langs) == 0 {
		return ""
	}
	if langs[0].EnglishName != "" {
		return langs[0].EnglishName
	}
	return langs[0].Name
}

func firstCountry(countries []productionCountry) string {
	if len(countries) == 0 {
		return ""
	}
	return countries[0].Name
}

// checkResponse checks the HTTP response for errors
func (c *Client) checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{
			StatusCode:    resp.StatusCode,
			StatusMessage: fmt.Sprintf("HTTP %d: failed to read error response", resp.StatusCode),
		}
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return &APIError{
			StatusCode:    resp.StatusCode,
			StatusMessage: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	if apiErr.StatusCode == 0 {
		apiErr.StatusCode = resp.StatusCode
	}
	if apiErr.StatusMessage == "" {
		apiErr.StatusMessage = fmt.Sprintf("HTTP %d error", resp.StatusCode)
	}

	return &apiErr
}

// rateLimit ensures requests are spaced out to avoid hitting API limits
func (c *Client) rateLimit() {
	elapsed := time.Since(c.lastRequest)
	if elapsed < requestInterval {
		time.Sleep(requestInterval - elapsed)
	}
	c.lastRequest = time.Now()
}
