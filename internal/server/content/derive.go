package content

import (
	"maps"
	"strings"

	"github.com/dmitrijs2005/folio/internal/server/models"
)

// Derive returns a copy of fields with the values the store maintains
// itself filled in, whoever the writer is:
//   - blogs: readTime follows content; a new post gets date and category.
//   - projects: a new project gets createdAt.
//   - roadmap: a new goal gets the default status.
//   - messages, comments, cert_requests, donations: a new document gets the
//     server timestamp; a new comment without a name is Anonymous.
//
// creating is true for a new document and false for a merge update.
func Derive(collection string, fields map[string]any, creating bool) map[string]any {
	out := maps.Clone(fields)
	if out == nil {
		out = map[string]any{}
	}

	switch collection {
	case Blogs:
		body, hasBody := out["content"].(string)
		if hasBody || creating {
			out["readTime"] = ReadTime(body)
		}
		if creating {
			setDefault(out, "date", models.ServerTimestamp)
			setDefault(out, "category", DefaultCategory)
		}
	case Projects:
		if creating {
			setDefault(out, "createdAt", models.ServerTimestamp)
		}
	case Roadmap:
		if creating {
			setDefault(out, "status", DefaultGoalStatus)
		}
	case Messages, Comments, CertRequests, Donations:
		if creating {
			out["timestamp"] = models.ServerTimestamp
		}
		if collection == Comments && creating {
			setDefault(out, "name", AnonymousCommenter)
		}
	}
	return out
}

// setDefault sets field when it is missing or a blank string.
func setDefault(fields map[string]any, field string, v any) {
	switch cur := fields[field].(type) {
	case nil:
		fields[field] = v
	case string:
		if strings.TrimSpace(cur) == "" {
			fields[field] = v
		}
	}
}
