package remote

import (
	"fmt"
	"net/url"
)

// kindSpec describes how one entity kind maps onto the remote REST surface.
type kindSpec struct {
	// listPath is the repo-relative collection path ("labels", "issues").
	// Empty for kinds that can only be listed under a parent.
	listPath string
	// nestedPath is the parent-scoped collection path ("pulls/%d/reviews").
	nestedPath string
	// createPath overrides the creation path when it differs from listPath;
	// "%d" is substituted with the record's parent number.
	createPath string
	// itemPath locates one record for update/delete ("labels/%s" by natural
	// key, "milestones/%d" by number, "issues/comments/%d" by ID).
	// Empty means the kind supports neither update nor delete.
	itemPath string
	// itemBy selects which record field fills itemPath.
	itemBy itemAddr
	// keyField is the payload field used as natural key ("name", "title").
	keyField string
	// numberField is the payload field carrying the user-facing number;
	// empty means the kind has none (ID only).
	numberField string
	// listParams are extra query parameters for listing.
	listParams url.Values
	// dropPullRequests filters out pull requests from a combined listing
	// (the issues collection includes them).
	dropPullRequests bool
}

type itemAddr int

const (
	addrNone itemAddr = iota
	addrKey
	addrNumber
	addrID
)

var kinds = map[string]kindSpec{
	"labels": {
		listPath: "labels",
		itemPath: "labels/%s", itemBy: addrKey,
		keyField: "name",
	},
	"milestones": {
		listPath: "milestones",
		itemPath: "milestones/%d", itemBy: addrNumber,
		keyField: "title", numberField: "number",
		listParams: url.Values{"state": {"all"}},
	},
	"issues": {
		listPath: "issues",
		itemPath: "issues/%d", itemBy: addrNumber,
		numberField: "number",
		listParams:  url.Values{"state": {"all"}},
		// The issues collection also returns pull requests.
		dropPullRequests: true,
	},
	"issue_comments": {
		listPath:   "issues/comments",
		nestedPath: "issues/%d/comments",
		createPath: "issues/%d/comments",
		itemPath:   "issues/comments/%d", itemBy: addrID,
	},
	"pulls": {
		listPath: "pulls",
		itemPath: "pulls/%d", itemBy: addrNumber,
		numberField: "number",
		listParams:  url.Values{"state": {"all"}},
	},
	"pr_reviews": {
		nestedPath: "pulls/%d/reviews",
		createPath: "pulls/%d/reviews",
	},
	"pr_review_comments": {
		listPath:   "pulls/comments",
		nestedPath: "pulls/%d/comments",
		createPath: "pulls/%d/comments",
		itemPath:   "pulls/comments/%d", itemBy: addrID,
	},
	"releases": {
		listPath: "releases",
		itemPath: "releases/%d", itemBy: addrID,
		keyField: "tag_name",
	},
	"release_assets": {
		nestedPath: "releases/%d/assets",
		itemPath:   "releases/assets/%d", itemBy: addrID,
		keyField:   "name",
	},
}

// Kinds returns the entity kind names the client can address.
func Kinds() []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	return out
}

func specFor(kind string) (kindSpec, error) {
	s, ok := kinds[kind]
	if !ok {
		return kindSpec{}, fmt.Errorf("remote: unknown entity kind %q", kind)
	}
	return s, nil
}
