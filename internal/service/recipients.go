package service

import (
	"regexp"
	"strings"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// EventKind identifies the mutation that triggered the side-effect pipeline.
type EventKind string

const (
	EventTaskAssigned   EventKind = "task_assigned"
	EventJobAssigned    EventKind = "job_assigned"
	EventTaskCompleted  EventKind = "task_completed"
	EventCommentMention EventKind = "comment_mention"
)

// Event carries an event kind plus the already-queried entity graph the
// resolver needs. ActorID is nil for system-triggered events.
type Event struct {
	Kind    EventKind
	ActorID *string

	// AssignedUserIDs holds the newly assigned users for assignment events.
	AssignedUserIDs []string

	// Comment and Users feed mention resolution. Users is the candidate
	// set the comment body is matched against.
	Comment *model.Comment
	Users   []*model.User

	// Collaborators feeds completion resolution.
	Collaborators []*model.CollaboratorWithUser
}

// ResolveRecipients returns the deduplicated set of user IDs to notify
// for an event. The actor is always excluded; an empty result is valid
// and means no notifications are written.
func ResolveRecipients(ev Event) []string {
	var candidates []string

	switch ev.Kind {
	case EventTaskAssigned, EventJobAssigned:
		// Only the newly assigned users, never existing assignees.
		candidates = ev.AssignedUserIDs

	case EventCommentMention:
		for _, u := range MentionedUsers(ev.Comment, ev.Users) {
			candidates = append(candidates, u.ID)
		}

	case EventTaskCompleted:
		// Elevated-visibility collaborators only: workspace admins
		// among the job's collaborator set. A task without a job has
		// no collaborators, so the set is empty.
		for _, c := range ev.Collaborators {
			if c.User.Role == model.UserRoleAdmin {
				candidates = append(candidates, c.UserID)
			}
		}

	default:
		return nil
	}

	return dedupeExcluding(candidates, ev.ActorID)
}

func dedupeExcluding(ids []string, exclude *string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if exclude != nil && id == *exclude {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// reMention extracts @tokens from a comment body. A token is either an
// email address or a bare word (letters, digits, dot, underscore, dash).
var reMention = regexp.MustCompile(`@([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+|[A-Za-z0-9._-]+)`)

// MentionedUsers returns the users whose name or email matches an
// @token in the comment body, excluding the comment author. The result
// preserves candidate order and contains no duplicates.
func MentionedUsers(comment *model.Comment, users []*model.User) []*model.User {
	if comment == nil || comment.Body == "" || len(users) == 0 {
		return nil
	}

	matches := reMention.FindAllStringSubmatch(comment.Body, -1)
	if len(matches) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, strings.ToLower(m[1]))
	}

	var out []*model.User
	for _, u := range users {
		if u == nil || u.ID == comment.AuthorID {
			continue
		}
		if userMatchesAny(u, tokens) {
			out = append(out, u)
		}
	}
	return out
}

// userMatchesAny reports whether any token matches the user's email,
// full name, or the first word of their name, case-insensitively.
func userMatchesAny(u *model.User, tokens []string) bool {
	email := strings.ToLower(u.Email)

	var name, firstWord string
	if u.Name != nil {
		name = strings.ToLower(strings.TrimSpace(*u.Name))
		if fields := strings.Fields(name); len(fields) > 0 {
			firstWord = fields[0]
		}
	}

	for _, tok := range tokens {
		if tok == email {
			return true
		}
		if name != "" && (tok == name || tok == firstWord) {
			return true
		}
	}
	return false
}
