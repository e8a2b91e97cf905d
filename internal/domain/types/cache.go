package types

// CacheSnapshot is what the CLI keeps between runs: the cloud bearer token
// and the last directory listing.
type CacheSnapshot struct {
	CloudToken string           `json:"cloud_token"`
	Devices    []DirectoryEntry `json:"devices"`
	SavedUTC   int64            `json:"saved_utc"`
}
