package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultReleaseURL is the GitHub endpoint for the latest sv release
const DefaultReleaseURL = "https://api.github.com/repos/Dicklesworthstone/swipe_sheet/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker looks up the latest published release
type Checker struct {
	URL    string
	Client *http.Client
}

// NewChecker returns a checker against the GitHub releases API with a short
// timeout so that `sv version --check` never hangs.
func NewChecker() *Checker {
	return &Checker{
		URL:    DefaultReleaseURL,
		Client: &http.Client{Timeout: 2 * time.Second},
	}
}

// Latest returns the newer release when one exists, or nil when current is
// up to date.
func (c *Checker) Latest(ctx context.Context, current string) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	if compareVersions(rel.TagName, current) > 0 {
		return &rel, nil
	}
	return nil, nil
}

// compareVersions returns 1 if v1 > v2, -1 if v1 < v2, 0 if equal.
// Segments compare numerically; a non-numeric version such as "dev" sorts
// before every release.
func compareVersions(v1, v2 string) int {
	a, okA := parseVersion(v1)
	b, okB := parseVersion(v2)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}

	for i := 0; i < max(len(a), len(b)); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x > y {
				return 1
			}
			return -1
		}
	}
	return 0
}

func parseVersion(v string) ([]int, bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	// Pre-release and build suffixes are ignored.
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return nil, false
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
