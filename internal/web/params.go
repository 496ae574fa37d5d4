package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/easyfin/internal/core"
	"github.com/JonMunkholm/easyfin/internal/table"
)

// parseViewQuery reads the view changes a request asks for. Only parameters
// that are present change the view; the rest of the state stays as the
// session left it.
//
//	page    1-based page number
//	size    rows per page
//	sort    comma-separated column ids; present but empty clears sorting
//	dir     comma-separated directions matching sort (default asc)
//	search  global filter text; present but empty clears it
func parseViewQuery(r *http.Request) core.ViewQuery {
	query := r.URL.Query()
	var q core.ViewQuery

	if page, ok := parsePositive(query.Get("page")); ok {
		index := page - 1
		q.Page = &index
	}
	if size, ok := parsePositive(query.Get("size")); ok {
		q.PageSize = size
	}

	if query.Has("sort") {
		q.Sorting = parseSorts(query.Get("sort"), query.Get("dir"))
		q.ClearSort = len(q.Sorting) == 0
	}

	if query.Has("search") {
		search := query.Get("search")
		q.Search = &search
	}
	return q
}

// parseSorts pairs comma-separated columns with directions. Invalid
// directions fall back to ascending.
func parseSorts(sortStr, dirStr string) []table.SortSpec {
	if strings.TrimSpace(sortStr) == "" {
		return nil
	}

	cols := strings.Split(sortStr, ",")
	dirs := strings.Split(dirStr, ",")

	var sorts []table.SortSpec
	for i, col := range cols {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		dir := table.Asc
		if i < len(dirs) {
			if d, ok := table.ParseDirection(dirs[i]); ok {
				dir = d
			}
		}
		sorts = append(sorts, table.SortSpec{ColumnID: col, Dir: dir})
	}
	return sorts
}

func parsePositive(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 {
		return 0, false
	}
	return i, true
}

// exportName sanitizes the requested download name. Path separators would
// confuse browsers saving the attachment.
func exportName(name string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(strings.TrimSpace(name))
}
