package candidate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bear/reaper/internal/cache"
	"github.com/bear/reaper/internal/errors"
	"github.com/bear/reaper/internal/inventory"
	"github.com/bear/reaper/internal/logger"
)

// FilterOptions control which candidates survive filtering.
type FilterOptions struct {
	// Pattern, when non-nil, must match a candidate's identifier.
	// Compile it with CompilePattern.
	Pattern *regexp.Regexp
	// Class, when non-empty, is a substring pre-filter applied to the
	// identifier before Pattern.
	Class string
	// Force accepts hosts even when they are in the seen cache.
	Force bool
}

// CompilePattern builds the identifier filter regex by inserting the filter
// expression into the base template (default "^%s"). An empty filter yields
// a nil pattern, meaning no filtering.
func CompilePattern(filter, base string) (*regexp.Regexp, error) {
	if filter == "" {
		return nil, nil
	}
	if base == "" {
		base = "^%s"
	}

	re, err := regexp.Compile(fmt.Sprintf(base, filter))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Filter %q isn't a valid regex", filter),
			"Check the filter and filter_base settings")
	}
	return re, nil
}

// Identifier extracts the host identifier from a raw candidate line: the
// text before the first comma, or the whole trimmed line.
func Identifier(line string) string {
	line = strings.TrimSpace(line)
	if idx := strings.Index(line, ","); idx != -1 {
		return line[:idx]
	}
	return line
}

// Filter narrows raw candidate lines to the hosts eligible for processing,
// preserving input order. Duplicates in the input are kept; deduplication
// happens only against the seen cache. A candidate missing from the
// inventory is logged and skipped, not fatal.
func Filter(lines []string, hosts map[string]inventory.Host, seen *cache.SeenCache, opts FilterOptions, log logger.Logger) []string {
	if log == nil {
		log = logger.Noop()
	}

	var accepted []string
	for _, line := range lines {
		name := Identifier(line)
		if name == "" {
			continue
		}

		if opts.Class != "" && !strings.Contains(name, opts.Class) {
			log.Debug("%s is not in class %q, skipping", name, opts.Class)
			continue
		}

		if opts.Pattern != nil && !opts.Pattern.MatchString(name) {
			log.Debug("%s does not match the filter, skipping", name)
			continue
		}

		host, ok := hosts[name]
		if !ok {
			log.Warn("%s is not in the inventory, skipping", name)
			continue
		}

		if !host.Enabled {
			log.Info("%s is not enabled, skipping", name)
			continue
		}
		if host.Notes != "" {
			log.Info("%s has a notes field, skipping", name)
			continue
		}

		if seen != nil && seen.Seen(name) {
			if !opts.Force {
				log.Info("%s has been processed within the last hour, skipping", name)
				continue
			}
			log.Info("%s has been processed within the last hour but is being forced", name)
		}

		accepted = append(accepted, name)
	}

	return accepted
}
