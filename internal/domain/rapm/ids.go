package rapm

import (
	"sort"
	"strconv"

	"github.com/okian/rapm/internal/domain/model"
)

// UniqueIDs returns every player id on either side of any stint, sorted
// numerically when all ids are integers and lexically otherwise.
func UniqueIDs(stints []model.Stint) []string {
	seen := make(map[string]struct{})
	for _, s := range stints {
		for _, p := range s.Offense {
			seen[p] = struct{}{}
		}
		for _, p := range s.Defense {
			seen[p] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []string) {
	nums := make(map[string]int64, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			sort.Strings(ids)
			return
		}
		nums[id] = n
	}
	sort.Slice(ids, func(i, j int) bool { return nums[ids[i]] < nums[ids[j]] })
}
