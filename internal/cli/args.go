package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/tudu/internal/model"
	"github.com/nhle/tudu/internal/store"
)

// dateLayouts are tried in order. Values without a zone are local time.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/06 3:04PM",
}

var hexColorRe = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, usageErrorf("unrecognised date %q; use YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or MM/DD/YYYY HH:MM", raw)
}

func parseColor(raw string) (string, error) {
	if !hexColorRe.MatchString(raw) {
		return "", usageErrorf("invalid hex color %q; expected #RRGGBB or #RGB", raw)
	}
	return raw, nil
}

func parseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return "", usageErrorf("invalid url %q; expected an absolute URL such as https://example.com", raw)
	}
	return u.String(), nil
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}

func parsePriority(raw string) (int, error) {
	p, err := model.ParsePriority(raw)
	if err != nil {
		return 0, usageErrorf("%v; use low, medium, high, urgent or a number", err)
	}
	return p, nil
}

func parseStatus(raw string) (model.TodoStatus, error) {
	st, err := model.ParseStatusName(raw)
	if err != nil {
		return 0, usageErrorf("%v; use pending, in_progress, done or cancelled", err)
	}
	return st, nil
}

func parseEstimate(raw int) (int, error) {
	if raw < 0 {
		return 0, usageErrorf("--estimate must not be negative")
	}
	return raw, nil
}

// resolveProject finds the project named by ref, which is an id or a name.
// An empty ref falls back to the PROJECT_ID pinned in the nearest .tudu file.
func resolveProject(ctx context.Context, rt *session, ref string) (*model.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		id, ok, err := model.WorkspaceProjectID(rt.workdir)
		if err != nil {
			return nil, usageErrorf("%v", err)
		}
		if !ok {
			return nil, usageErrorf("no project given and no %s file pins one; pass a project id or name, or run `tudu pin`", model.WorkspaceFileName)
		}
		return rt.store.GetProject(ctx, id)
	}

	if id, err := strconv.ParseInt(strings.TrimPrefix(ref, "#"), 10, 64); err == nil {
		p, err := rt.store.GetProject(ctx, id)
		if !errors.Is(err, store.ErrNotFound) {
			return p, err
		}
	}
	return rt.store.FindProjectByName(ctx, ref)
}

// pinnedProjectID returns the project pinned for the working directory, if any.
func pinnedProjectID(rt *session) (*int64, error) {
	id, ok, err := model.WorkspaceProjectID(rt.workdir)
	if err != nil {
		return nil, usageErrorf("%v", err)
	}
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func stringPtr(s string) *string { return &s }

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("%s does not accept arguments, got %q", cmd.CommandPath(), args)
	}
	return nil
}

func exactArgs(n int, names string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s expects %s", cmd.CommandPath(), names)
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return usageErrorf("%s accepts at most %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

func describeCount(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}
