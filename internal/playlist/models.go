package playlist

// Thumbnail is a single rendition of playlist or track artwork.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Author identifies the owner of a playlist.
type Author struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Artist identifies a performer credited on a track.
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Album identifies the release a track belongs to.
type Album struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// LikeStatus is the user's rating of a track.
type LikeStatus string

const (
	LikeStatusLike        LikeStatus = "LIKE"
	LikeStatusIndifferent LikeStatus = "INDIFFERENT"
	LikeStatusDislike     LikeStatus = "DISLIKE"
)

// VideoType distinguishes audio-only tracks from official music videos.
type VideoType string

const (
	VideoTypeATV VideoType = "MUSIC_VIDEO_TYPE_ATV"
	VideoTypeOMV VideoType = "MUSIC_VIDEO_TYPE_OMV"
)

// PrivacyStatus is the visibility of a playlist.
type PrivacyStatus string

const (
	PrivacyUnlisted PrivacyStatus = "UNLISTED"
	PrivacyPublic   PrivacyStatus = "PUBLIC"
	PrivacyPrivate  PrivacyStatus = "PRIVATE"
)

// Summary is a library playlist as listed in the sidebar.
type Summary struct {
	PlaylistID  string      `json:"playlistId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
	Count       string      `json:"count,omitempty"`
	Author      []Author    `json:"author,omitempty"`
}

// FeedbackTokens toggle library membership for a track.
type FeedbackTokens struct {
	Add    string `json:"add"`
	Remove string `json:"remove"`
}

// ListenAgainTokens toggle the "listen again" shelf pin for a track.
type ListenAgainTokens struct {
	Pin   string `json:"pin"`
	Unpin string `json:"unpin"`
}

// Track is one entry of a playlist.
type Track struct {
	VideoID                   string            `json:"videoId"`
	Title                     string            `json:"title"`
	Artists                   []Artist          `json:"artists"`
	Album                     *Album            `json:"album"`
	LikeStatus                LikeStatus        `json:"likeStatus"`
	InLibrary                 bool              `json:"inLibrary"`
	PinnedToListenAgain       bool              `json:"pinnedToListenAgain"`
	FeedbackTokens            FeedbackTokens    `json:"feedbackTokens"`
	ListenAgainFeedbackTokens ListenAgainTokens `json:"listenAgainFeedbackTokens"`
	Thumbnails                []Thumbnail       `json:"thumbnails"`
	IsAvailable               bool              `json:"isAvailable"`
	IsExplicit                bool              `json:"isExplicit"`
	VideoType                 VideoType         `json:"videoType"`
	Views                     *int64            `json:"views"`
	Duration                  string            `json:"duration"`
	DurationSeconds           int               `json:"duration_seconds"`
	SetVideoID                string            `json:"setVideoId"`
}

// Details is the full listing of a single playlist. It is replaced wholesale
// on every fetch.
type Details struct {
	ID              string        `json:"id"`
	Owned           bool          `json:"owned"`
	Privacy         PrivacyStatus `json:"privacy"`
	Description     *string       `json:"description"`
	Views           int64         `json:"views"`
	Duration        string        `json:"duration"`
	TrackCount      int           `json:"trackCount"`
	Title           string        `json:"title"`
	Thumbnails      []Thumbnail   `json:"thumbnails"`
	Author          Author        `json:"author"`
	Year            string        `json:"year"`
	Related         []any         `json:"related"`
	Tracks          []Track       `json:"tracks"`
	DurationSeconds int           `json:"duration_seconds"`
	// DominantColor is a "#rrggbb" string extracted from the largest thumbnail.
	DominantColor *string `json:"dominantColor"`
}

// LargestThumbnail returns the widest thumbnail, or false when there is none.
func LargestThumbnail(thumbs []Thumbnail) (Thumbnail, bool) {
	if len(thumbs) == 0 {
		return Thumbnail{}, false
	}
	best := thumbs[0]
	for _, t := range thumbs[1:] {
		if t.Width > best.Width {
			best = t
		}
	}
	return best, true
}

// InvalidateReport lists which playlist ids were evicted from the host cache.
type InvalidateReport struct {
	Invalidated []string `json:"invalidated"`
	NotFound    []string `json:"not_found"`
}

// ClearReport is the number of cache entries removed by a full clear.
type ClearReport struct {
	Cleared int `json:"cleared"`
}
