package entity

// Catalog returns the built-in entity descriptors in discovery order.
// Adding a new kind means adding one Config here plus its strategies;
// there is no runtime scanning.
func Catalog() []Config {
	return []Config{
		{
			Name:           "labels",
			ConfigKey:      "GITVAULT_LABELS",
			DefaultEnabled: true,
			Shape:          ShapeBool,
			Description:    "Repository labels (name, color, description).",
		},
		{
			Name:           "milestones",
			ConfigKey:      "GITVAULT_MILESTONES",
			DefaultEnabled: true,
			Shape:          ShapeBool,
			Description:    "Milestones referenced by issues and pull requests.",
		},
		{
			Name:           "issues",
			ConfigKey:      "GITVAULT_ISSUES",
			DefaultEnabled: true,
			Shape:          ShapeSelectable,
			Dependencies:   []string{"labels", "milestones"},
			Description:    "Issues with their labels and milestone references.",
		},
		{
			Name:           "issue_comments",
			ConfigKey:      "GITVAULT_ISSUE_COMMENTS",
			DefaultEnabled: true,
			Shape:          ShapeBool,
			Dependencies:   []string{"issues"},
			Description:    "Threaded discussion comments on issues.",
		},
		{
			Name:           "pulls",
			ConfigKey:      "GITVAULT_PULLS",
			DefaultEnabled: true,
			Shape:          ShapeSelectable,
			Dependencies:   []string{"labels", "milestones"},
			Description:    "Pull requests (metadata only, not branch contents).",
		},
		{
			Name:           "pr_reviews",
			ConfigKey:      "GITVAULT_PR_REVIEWS",
			DefaultEnabled: true,
			Shape:          ShapeBool,
			Dependencies:   []string{"pulls"},
			Description:    "Pull request reviews.",
		},
		{
			Name:           "pr_review_comments",
			ConfigKey:      "GITVAULT_PR_REVIEW_COMMENTS",
			DefaultEnabled: true,
			Shape:          ShapeBool,
			Dependencies:   []string{"pr_reviews"},
			Description:    "Inline review comments on pull request diffs.",
		},
		{
			Name:           "releases",
			ConfigKey:      "GITVAULT_RELEASES",
			DefaultEnabled: true,
			Shape:          ShapeBool,
			Description:    "Releases (tag, name, notes).",
		},
		{
			Name:           "release_assets",
			ConfigKey:      "GITVAULT_RELEASE_ASSETS",
			DefaultEnabled: false,
			Shape:          ShapeBool,
			Dependencies:   []string{"releases"},
			Description:    "Binary assets attached to releases. Off by default: potentially large.",
		},
	}
}
