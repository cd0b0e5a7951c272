package strategy

import (
	"encoding/json"
	"fmt"

	"github.com/flarebyte/baldrick-gitvault/internal/model"
)

// rewriteForCreate projects an archived payload onto the fields the remote
// creation endpoint accepts, remapping cross-entity references through the
// run context (an issue's milestone points at the number the milestone was
// recreated under).
func rewriteForCreate(kind string, rec model.Record, rc *RunContext) (model.Record, error) {
	var in map[string]any
	if err := json.Unmarshal(rec.Data, &in); err != nil {
		return model.Record{}, fmt.Errorf("%s: parse archived record: %w", kind, err)
	}
	out := map[string]any{}
	switch kind {
	case "labels":
		copyFields(out, in, "name", "color", "description")
	case "milestones":
		copyFields(out, in, "title", "state", "description", "due_on")
	case "issues":
		copyFields(out, in, "title", "body")
		if names := labelNames(in["labels"]); names != nil {
			out["labels"] = names
		}
		if n, ok := milestoneNumber(in["milestone"]); ok {
			if mapped, ok := rc.Number("milestones", n); ok {
				n = mapped
			}
			out["milestone"] = n
		}
	case "issue_comments", "pr_review_comments":
		copyFields(out, in, "body")
		if kind == "pr_review_comments" {
			copyFields(out, in, "commit_id", "path", "side", "line")
		}
	case "pulls":
		copyFields(out, in, "title", "body", "draft")
		if ref := refName(in["head"]); ref != "" {
			out["head"] = ref
		}
		if ref := refName(in["base"]); ref != "" {
			out["base"] = ref
		}
	case "pr_reviews":
		copyFields(out, in, "body")
		out["event"] = reviewEvent(in["state"])
	case "releases":
		copyFields(out, in, "tag_name", "target_commitish", "name", "body", "draft", "prerelease")
	default:
		return model.Record{}, fmt.Errorf("%s: no creation payload mapping", kind)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return model.Record{}, err
	}
	rec.Data = data
	return rec, nil
}

func copyFields(dst, src map[string]any, names ...string) {
	for _, n := range names {
		if v, ok := src[n]; ok && v != nil {
			dst[n] = v
		}
	}
}

// labelNames flattens a listing's label objects to their names.
func labelNames(v any) []string {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	var names []string
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			if name, ok := obj["name"].(string); ok {
				names = append(names, name)
			}
		}
	}
	return names
}

// milestoneNumber pulls the number out of an embedded milestone object.
func milestoneNumber(v any) (int, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return 0, false
	}
	n, ok := obj["number"].(float64)
	if !ok {
		return 0, false
	}
	return int(n), true
}

func refName(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	ref, _ := obj["ref"].(string)
	return ref
}

// reviewEvent maps an archived review state onto the event the submission
// endpoint expects.
func reviewEvent(v any) string {
	switch v {
	case "APPROVED":
		return "APPROVE"
	case "CHANGES_REQUESTED":
		return "REQUEST_CHANGES"
	default:
		return "COMMENT"
	}
}
