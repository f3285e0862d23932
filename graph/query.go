package graph

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/teranos/nodegraph/errors"
	grapherr "github.com/teranos/nodegraph/graph/error"
)

// FilterQuery is a parsed filter query.
//
// Syntax, whitespace separated, shell-style quoting:
//
//	tag:"deep work" tag:reading focus:n1 depth:2 projects
//
// A bare word is a tag. Tags are matched by id first, then by name.
type FilterQuery struct {
	Tags  []string
	Focus string
	Depth int
}

// Empty reports whether the query selects everything
func (q *FilterQuery) Empty() bool {
	return len(q.Tags) == 0 && q.Focus == ""
}

// ParseFilterQuery parses a filter query string. Multi-line queries are
// joined. Unbalanced quotes fall back to a plain whitespace split.
func ParseFilterQuery(query string) (*FilterQuery, error) {
	q := &FilterQuery{}
	for _, line := range strings.Split(strings.TrimSpace(query), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		args, err := shellquote.Split(line)
		if err != nil {
			args = strings.Fields(line)
		}
		for _, arg := range args {
			if err := q.apply(arg); err != nil {
				return nil, grapherr.New(grapherr.CategoryParse, err, "").
					WithSubcategory(subcategoryFor(err)).
					WithContext("query", query).
					WithContext("arg", arg)
			}
		}
	}
	return q, nil
}

var (
	errUnknownKey   = errors.New("unknown filter key")
	errInvalidValue = errors.New("invalid filter value")
)

func (q *FilterQuery) apply(arg string) error {
	key, value, found := strings.Cut(arg, ":")
	if !found {
		if arg != "" {
			q.Tags = append(q.Tags, arg)
		}
		return nil
	}
	if value == "" {
		return errors.Wrapf(errInvalidValue, "%s: empty value", key)
	}

	switch strings.ToLower(key) {
	case "tag", "tags":
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				q.Tags = append(q.Tags, t)
			}
		}
	case "focus":
		q.Focus = value
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 0 {
			return errors.Wrapf(errInvalidValue, "depth: %q is not a non-negative integer", value)
		}
		q.Depth = depth
	default:
		return errors.Wrapf(errUnknownKey, "%q", key)
	}
	return nil
}

func subcategoryFor(err error) string {
	switch {
	case errors.Is(err, errUnknownKey):
		return grapherr.SubcategoryParseUnknownKey
	case errors.Is(err, errInvalidValue):
		return grapherr.SubcategoryParseInvalidValue
	default:
		return grapherr.SubcategoryParseInvalidSyntax
	}
}
