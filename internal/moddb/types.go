package moddb

import (
	"encoding/json"
	"strings"
)

// Release is one published release of a mod, as listed by the mod database.
type Release struct {
	Version string `json:"modversion"`
	FileID  int    `json:"fileid"`
	// Tags are game-version labels such as "v1.19.8", newest first.
	Tags []string `json:"tags"`
	// Created is "2006-01-02 15:04:05" in the database's local time.
	Created string `json:"created"`
}

// PrimaryTag returns the first tag, or "" when the release is untagged.
func (r Release) PrimaryTag() string {
	if len(r.Tags) == 0 {
		return ""
	}
	return r.Tags[0]
}

// ReleaseDate returns the date part of Created, or "" when unknown.
func (r Release) ReleaseDate() string {
	date, _, _ := strings.Cut(strings.TrimSpace(r.Created), " ")
	return date
}

// ReleaseList is the release history of one mod, newest first. Callers must
// not reorder it.
type ReleaseList []Release

// modResponse is the subset of the /api/mod/{id} response we need.
type modResponse struct {
	StatusCode json.Number `json:"statuscode"`
	Mod        *struct {
		Releases ReleaseList `json:"releases"`
	} `json:"mod"`
}
